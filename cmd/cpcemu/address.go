package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAddress reads a 16-bit value written as 0x1234, 1234h, &1234,
// #1234 or decimal.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}

	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, digits = 16, s[2:]
	case strings.HasPrefix(s, "&"), strings.HasPrefix(s, "#"), strings.HasPrefix(s, "$"):
		base, digits = 16, s[1:]
	case strings.HasSuffix(s, "h"), strings.HasSuffix(s, "H"):
		base, digits = 16, s[:len(s)-1]
	}
	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint16(v), nil
}

// addrValue is a pflag.Value holding a 16-bit address.
type addrValue uint16

func (a *addrValue) String() string { return fmt.Sprintf("%04Xh", uint16(*a)) }

func (a *addrValue) Set(s string) error {
	v, err := parseAddress(s)
	if err != nil {
		return err
	}
	*a = addrValue(v)
	return nil
}

func (a *addrValue) Type() string { return "address" }

// UnmarshalYAML lets config files use the same address notations.
func (a *addrValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		if v < 0 || v > 0xFFFF {
			return fmt.Errorf("address %d out of range", v)
		}
		*a = addrValue(v)
		return nil
	case string:
		return a.Set(v)
	}
	return fmt.Errorf("address must be a number or string, got %T", raw)
}
