package poker

// 7-card hand evaluator. Lower HandRank values are stronger hands.
//
// A rank is category<<20 | detail, where detail packs the tiebreak ranks as
// descending nibbles (12-rank each), so integer comparison of two ranks is
// exactly the standard poker ordering: category first, then tiebreaks in
// order of significance.

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidHand reports an evaluator contract violation: anything other
// than exactly seven distinct cards. It indicates a bug in the caller's deal
// generation, not a user error.
var ErrInvalidHand = errors.New("invalid hand")

// HandRank represents the strength of a poker hand. Lower is stronger.
type HandRank uint32

// HandType enumerates hand categories, strongest first.
type HandType uint8

const (
	RoyalFlush HandType = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard

	// NumHandTypes sizes arrays indexed by HandType.
	NumHandTypes = int(HighCard) + 1
)

// String returns the readable name of the hand type.
func (t HandType) String() string {
	switch t {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		return "Unknown"
	}
}

// Type returns the category of the hand.
func (hr HandRank) Type() HandType {
	return HandType(hr >> 20)
}

// String returns the readable name of the hand's category.
func (hr HandRank) String() string {
	return hr.Type().String()
}

// Compare returns 1 if hr is the stronger hand, -1 if other is, 0 on a tie.
func (hr HandRank) Compare(other HandRank) int {
	if hr < other {
		return 1
	} else if hr > other {
		return -1
	}
	return 0
}

// Evaluate7 ranks the best 5-card hand within a 7-card hand.
// It is a pure function of the hand: permuting or re-adding the same cards
// can not change the result. Returns ErrInvalidHand unless the hand holds
// exactly seven cards.
func Evaluate7(h Hand) (HandRank, error) {
	if n := h.CountCards(); n != 7 {
		return 0, fmt.Errorf("%w: expected 7 cards, got %d", ErrInvalidHand, n)
	}
	return evaluate7(h), nil
}

// EvaluateBatch evaluates hands into out, allocating when out is too small.
// Hands are assumed to contain exactly seven cards; this is the unchecked
// hot path used by batch executors.
func EvaluateBatch(hands []Hand, out []HandRank) []HandRank {
	if len(out) < len(hands) {
		out = make([]HandRank, len(hands))
	} else {
		out = out[:len(hands)]
	}
	for i, h := range hands {
		out[i] = evaluate7(h)
	}
	return out
}

func evaluate7(h Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		m := h.GetSuitMask(suit)
		suitMasks[suit] = m
		rankMask |= m
	}

	// Only one suit can hold five of seven cards.
	var flushMask uint16
	for _, m := range suitMasks {
		if bits.OnesCount16(m) >= 5 {
			flushMask = m
			break
		}
	}
	if flushMask != 0 {
		if high := straightHigh(flushMask); high > 0 {
			if high == Ace {
				return HandRank(uint32(RoyalFlush) << 20)
			}
			return rankOf(StraightFlush, high)
		}
		var top [5]uint8
		topRanks(flushMask, top[:])
		return rankOf(Flush, top[:]...)
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]

	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quad := highestRank(quadsMask); quad >= 0 {
		kicker := highestRank(rankMask &^ (1 << uint(quad)))
		return rankOf(FourOfAKind, uint8(quad), uint8(kicker))
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		// A second trip counts as the pair of a full house.
		pairCandidates := pairsMask | (tripsMask &^ (1 << uint(trip)))
		if pair := highestRank(pairCandidates); pair >= 0 {
			return rankOf(FullHouse, uint8(trip), uint8(pair))
		}
	}

	if high := straightHigh(rankMask); high > 0 {
		return rankOf(Straight, high)
	}

	if trip := highestRank(tripsMask); trip >= 0 {
		rest := rankMask &^ (1 << uint(trip))
		k1 := highestRank(rest)
		k2 := highestRank(rest &^ (1 << uint(k1)))
		return rankOf(ThreeOfAKind, uint8(trip), uint8(k1), uint8(k2))
	}

	if highPair := highestRank(pairsMask); highPair >= 0 {
		if lowPair := highestRank(pairsMask &^ (1 << uint(highPair))); lowPair >= 0 {
			// A third pair can still supply the kicker.
			kicker := highestRank(rankMask &^ (1 << uint(highPair)) &^ (1 << uint(lowPair)))
			return rankOf(TwoPair, uint8(highPair), uint8(lowPair), uint8(kicker))
		}
		rest := rankMask &^ (1 << uint(highPair))
		k1 := highestRank(rest)
		rest &^= 1 << uint(k1)
		k2 := highestRank(rest)
		rest &^= 1 << uint(k2)
		k3 := highestRank(rest)
		return rankOf(OnePair, uint8(highPair), uint8(k1), uint8(k2), uint8(k3))
	}

	var top [5]uint8
	topRanks(rankMask, top[:])
	return rankOf(HighCard, top[:]...)
}

// rankOf encodes a category and its tiebreak ranks, most significant first.
func rankOf(t HandType, tiebreaks ...uint8) HandRank {
	detail := uint32(0)
	shift := uint(16)
	for _, r := range tiebreaks {
		detail |= uint32(12-r) << shift
		shift -= 4
	}
	return HandRank(uint32(t)<<20 | detail)
}

// highestRank returns the highest rank present in the bitmask (-1 when empty).
func highestRank(mask uint16) int {
	if mask == 0 {
		return -1
	}
	return bits.Len16(mask) - 1
}

// topRanks fills dst with the highest ranks present in the mask, descending.
// The mask must hold at least len(dst) ranks.
func topRanks(mask uint16, dst []uint8) {
	for i := range dst {
		r := highestRank(mask)
		dst[i] = uint8(r)
		mask &^= 1 << uint(r)
	}
}

// straightHigh returns the high-card rank of the best straight in the rank
// mask, or 0 if there is none. The wheel (A-2-3-4-5) reports Five as its
// high card and is only chosen when no higher straight exists.
func straightHigh(mask uint16) uint8 {
	const wheelMask = 0x100F // Ace + 2-3-4-5
	mask &= 0x1FFF

	// Bitwise cascade identifies five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		low := uint8(bits.Len16(seq) - 1)
		return low + 4
	}
	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

// CompareHands compares two ranks: 1 if a wins, -1 if b wins, 0 for a tie.
func CompareHands(a, b HandRank) int {
	return a.Compare(b)
}
