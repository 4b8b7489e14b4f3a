package usecase_test

import "github.com/shopspring/decimal"

func decimalInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decimalStr(v string) decimal.Decimal { return decimal.RequireFromString(v) }
