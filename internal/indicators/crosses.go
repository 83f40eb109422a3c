package indicators

import (
	"github.com/openclaw/stock/internal/contracts"
)

// CrossAt compares the sign of (fast - slow) between bar i-1 and bar i. A
// golden cross fires where the fast series moves from below to at-or-above
// the slow one; a death cross is the downward mirror. An exact touch counts
// as the post-cross side, so the two can never fire on the same bar.
func CrossAt(fast, slow contracts.Series, i int) contracts.Cross {
	if i < 1 {
		return contracts.CrossNone
	}

	fPrev, ok1 := fast.At(i - 1)
	sPrev, ok2 := slow.At(i - 1)
	fCur, ok3 := fast.At(i)
	sCur, ok4 := slow.At(i)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return contracts.CrossNone
	}

	diffPrev := fPrev - sPrev
	diffCur := fCur - sCur

	switch {
	case diffPrev < 0 && diffCur >= 0:
		return contracts.GoldenCross
	case diffPrev > 0 && diffCur <= 0:
		return contracts.DeathCross
	default:
		return contracts.CrossNone
	}
}

// LatestCross evaluates CrossAt on the final bar of the pair.
func LatestCross(fast, slow contracts.Series) contracts.Cross {
	n := fast.Len()
	if slow.Len() < n {
		n = slow.Len()
	}
	return CrossAt(fast, slow, n-1)
}
