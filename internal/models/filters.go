package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the YYYY-MM-DD layout accepted by every date filter.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so messages match query parameters
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationMessage turns a Validate error into a client-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "datetime":
		return fmt.Sprintf("Invalid %s format, expected YYYY-MM-DD", fe.Field())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("Invalid %s value, expected one of: %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("Invalid %s value, %s is %s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("Invalid %s format", fe.Field())
	}
}

// CongressFilters narrows congress trade queries
type CongressFilters struct {
	Ticker    string `json:"ticker" validate:"omitempty,min=1,max=5,alpha,uppercase"`
	Member    string `json:"congress_member" validate:"omitempty,max=100"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// Validate checks the filter values against their tags and that the
// date range is ordered.
func (f *CongressFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return validateRange(f.StartDate, f.EndDate)
}

// Params returns the normalised filter set used for fingerprinting.
func (f *CongressFilters) Params() map[string]string {
	return map[string]string{
		"ticker":          f.Ticker,
		"congress_member": f.Member,
		"start_date":      f.StartDate,
		"end_date":        f.EndDate,
	}
}

// GreekFlowFilters narrows Greek flow queries; a ticker is mandatory
type GreekFlowFilters struct {
	Ticker    string `json:"ticker" validate:"required,min=1,max=5,alpha,uppercase"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (f *GreekFlowFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return validateRange(f.StartDate, f.EndDate)
}

func (f *GreekFlowFilters) Params() map[string]string {
	return map[string]string{
		"ticker":     f.Ticker,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	}
}

// EarningsFilters narrows earnings queries
type EarningsFilters struct {
	Sector       string `json:"sector" validate:"omitempty,max=100"`
	SurpriseType string `json:"surprise_type" validate:"omitempty,oneof=positive negative"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (f *EarningsFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return validateRange(f.StartDate, f.EndDate)
}

func (f *EarningsFilters) Params() map[string]string {
	return map[string]string{
		"sector":        f.Sector,
		"surprise_type": f.SurpriseType,
		"start_date":    f.StartDate,
		"end_date":      f.EndDate,
	}
}

// InsiderFilters narrows insider trading queries
type InsiderFilters struct {
	Role      string `json:"insider_role" validate:"omitempty,max=100"`
	TradeType string `json:"trade_type" validate:"omitempty,oneof=buy sell"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (f *InsiderFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return validateRange(f.StartDate, f.EndDate)
}

func (f *InsiderFilters) Params() map[string]string {
	return map[string]string{
		"insider_role": f.Role,
		"trade_type":   f.TradeType,
		"start_date":   f.StartDate,
		"end_date":     f.EndDate,
	}
}

// PremiumFlowFilters narrows premium flow queries
type PremiumFlowFilters struct {
	OptionType   string `json:"option_type" validate:"omitempty,oneof=call put"`
	Sector       string `json:"sector" validate:"omitempty,max=100"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	LookbackDays int    `json:"lookback_days" validate:"min=1,max=365"`
	IsIntraday   bool   `json:"is_intraday"`
}

func (f *PremiumFlowFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return err
	}
	return validateRange(f.StartDate, f.EndDate)
}

func (f *PremiumFlowFilters) Params() map[string]string {
	return map[string]string{
		"option_type":   f.OptionType,
		"sector":        f.Sector,
		"start_date":    f.StartDate,
		"end_date":      f.EndDate,
		"lookback_days": strconv.Itoa(f.LookbackDays),
		"is_intraday":   strconv.FormatBool(f.IsIntraday),
	}
}

// MarketTideFilters selects the market tide session and granularity
type MarketTideFilters struct {
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Interval5m   bool   `json:"interval_5m"`
	LookbackDays int    `json:"lookback_days" validate:"min=1,max=365"`
	Granularity  string `json:"granularity" validate:"oneof=minute daily"`
}

func (f *MarketTideFilters) Validate() error {
	return validate.Struct(f)
}

func (f *MarketTideFilters) Params() map[string]string {
	return map[string]string{
		"date":          f.Date,
		"interval_5m":   strconv.FormatBool(f.Interval5m),
		"lookback_days": strconv.Itoa(f.LookbackDays),
		"granularity":   f.Granularity,
	}
}

// IsIntraday reports whether the tide is requested at minute granularity.
func (f *MarketTideFilters) IsIntraday() bool {
	return f.Granularity == "minute"
}

func validateRange(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return err
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return fmt.Errorf("end_date %s is before start_date %s", end, start)
	}
	return nil
}
