package cli

import (
	"github.com/alexanderramin/lockedin/internal/domain"
	"github.com/spf13/pflag"
)

// daysValue is a pflag.Value holding a weekday mask. It accepts the same
// spellings as domain.ParseDaysOfWeek and validates at parse time.
type daysValue struct {
	mask *int
	set  bool
}

var _ pflag.Value = (*daysValue)(nil)

func newDaysValue(mask *int) *daysValue {
	return &daysValue{mask: mask}
}

func (d *daysValue) String() string {
	if d.mask == nil {
		return ""
	}
	return domain.FormatDaysOfWeek(*d.mask)
}

func (d *daysValue) Set(s string) error {
	m, err := domain.ParseDaysOfWeek(s)
	if err != nil {
		return err
	}
	*d.mask = m
	d.set = true
	return nil
}

func (d *daysValue) Type() string { return "days" }
