package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed identifiers and dates for deterministic tests.
var (
	TestCustomerID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestCustomerID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestLoanID1     = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	TestLoanID2     = uuid.MustParse("00000000-0000-0000-0000-000000000102")

	// TestToday is the reference "today" used by clock-dependent tests.
	TestToday = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
)

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }
