package wtime

import "testing"

func TestCyclicDiffSelf(t *testing.T) {
	if got := CyclicDiff(12345, 12345); got != 0 {
		t.Fatalf("CyclicDiff(a,a) = %d, want 0", got)
	}
}

func TestCyclicDiffWrap(t *testing.T) {
	if got := CyclicDiff(0, 1); got != Week-1 {
		t.Fatalf("CyclicDiff(0,1) = %d, want %d", got, Week-1)
	}
}

func TestCyclicDiffInvariants(t *testing.T) {
	cases := [][2]int64{{0, 0}, {100, 50}, {Week - 1, 0}, {0, Week - 1}, {Day, Day * 3}}
	for _, c := range cases {
		a, b := c[0], c[1]
		d := CyclicDiff(a, b)
		if d < 0 || d >= Week {
			t.Fatalf("CyclicDiff(%d,%d) = %d out of range", a, b, d)
		}
		sum := d + CyclicDiff(b, a)
		if sum != 0 && sum != Week {
			t.Fatalf("CyclicDiff(%d,%d)+CyclicDiff(%d,%d) = %d, want 0 or Week", a, b, b, a, sum)
		}
		if got := CyclicAdd(b, d); got != normalize(a) {
			t.Fatalf("CyclicAdd(%d, diff(%d,%d)) = %d, want %d", b, a, b, got, normalize(a))
		}
	}
}

func TestReached(t *testing.T) {
	if !Reached(100, 50, 50) {
		t.Fatal("expected reached")
	}
	if Reached(101, 50, 50) {
		t.Fatal("expected not reached")
	}
}

func TestConvert(t *testing.T) {
	h, m, s := Convert(Hour*2 + Minute*3 + Second*4)
	if h != 2 || m != 3 || s != 4 {
		t.Fatalf("Convert = %d:%d:%d, want 2:3:4", h, m, s)
	}
}

func TestCyclicNextEntryAcrossWeekBoundary(t *testing.T) {
	// Saturday 23:59:59.000 -> Sunday 00:00:00: diff is 1 second.
	saturday235959 := Day*6 + Hour*23 + Minute*59 + Second*59
	sundayMidnight := int64(0)
	if got := CyclicDiff(sundayMidnight, saturday235959); got != Second {
		t.Fatalf("CyclicDiff = %d, want %d", got, Second)
	}
}
