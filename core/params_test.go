package core

import (
	"testing"

	sigchat "github.com/BackendStack21/sigchat-go"
)

func TestGetParams(t *testing.T) {
	// Test default
	params, err := GetParams(sigchat.ProfileDefault)
	if err != nil {
		t.Fatalf("GetParams(default) failed: %v", err)
	}
	if params.PrimeMin != 10 || params.PrimeMax != 100 {
		t.Errorf("Expected range [10, 100), got [%d, %d)", params.PrimeMin, params.PrimeMax)
	}

	// Empty profile falls back to default
	params, err = GetParams("")
	if err != nil || params != DefaultParams {
		t.Errorf("GetParams(\"\") = %+v, %v; want defaults", params, err)
	}

	// Test profile
	params, err = GetParams(sigchat.ProfileTest)
	if err != nil {
		t.Fatalf("GetParams(test) failed: %v", err)
	}
	if params.MaxPrimeAttempts >= DefaultParams.MaxPrimeAttempts {
		t.Errorf("test profile should have a smaller prime budget, got %d", params.MaxPrimeAttempts)
	}

	// Test invalid
	_, err = GetParams("INVALID")
	if err == nil {
		t.Error("GetParams(INVALID) should fail")
	}
}

func TestValidateParams(t *testing.T) {
	for _, profile := range []sigchat.Profile{sigchat.ProfileDefault, sigchat.ProfileTest} {
		params, _ := GetParams(profile)
		if err := ValidateParams(params); err != nil {
			t.Errorf("ValidateParams failed for %s: %v", profile, err)
		}
	}

	base := DefaultParams
	cases := []struct {
		name   string
		mutate func(p *sigchat.Params)
	}{
		{"prime-min below 2", func(p *sigchat.Params) { p.PrimeMin = 1 }},
		{"empty range", func(p *sigchat.Params) { p.PrimeMax = p.PrimeMin }},
		{"inverted range", func(p *sigchat.Params) { p.PrimeMin, p.PrimeMax = 100, 10 }},
		{"prime-max too large", func(p *sigchat.Params) { p.PrimeMax = MaxPrime + 1 }},
		{"zero prime budget", func(p *sigchat.Params) { p.MaxPrimeAttempts = 0 }},
		{"negative exponent budget", func(p *sigchat.Params) { p.MaxExponentAttempts = -1 }},
		{"zero distinct budget", func(p *sigchat.Params) { p.MaxDistinctAttempts = 0 }},
	}
	for _, tc := range cases {
		p := base
		tc.mutate(&p)
		if err := ValidateParams(p); err == nil {
			t.Errorf("ValidateParams should reject %s", tc.name)
		}
	}

	// A range without primes is structurally valid
	p := base
	p.PrimeMin, p.PrimeMax = 24, 29
	if err := ValidateParams(p); err != nil {
		t.Errorf("ValidateParams rejected prime-free range: %v", err)
	}

	// Upper bound is inclusive
	p = base
	p.PrimeMax = MaxPrime
	if err := ValidateParams(p); err != nil {
		t.Errorf("ValidateParams rejected prime-max at the limit: %v", err)
	}
}

func TestValidateParams_NamesBudget(t *testing.T) {
	cases := []struct {
		mutate func(p *sigchat.Params)
		want   string
	}{
		{func(p *sigchat.Params) { p.MaxPrimeAttempts = 0 }, "max-prime-attempts must be positive"},
		{func(p *sigchat.Params) { p.MaxExponentAttempts = -3 }, "max-exponent-attempts must be positive"},
		{func(p *sigchat.Params) { p.MaxDistinctAttempts = 0 }, "max-distinct-attempts must be positive"},
	}
	for _, tc := range cases {
		p := DefaultParams
		tc.mutate(&p)
		err := ValidateParams(p)
		if err == nil || err.Error() != tc.want {
			t.Errorf("ValidateParams() = %v, want %q", err, tc.want)
		}
	}
}
