package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestValidationMessage(t *testing.T) {
	v := validator.New()

	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{
			"missing company name",
			companyReq{Address: "1 Main St", Website: "https://globex.test", Description: "d", Tel: "555"},
			"please add a name",
		},
		{
			"name too long",
			companyReq{Name: strings.Repeat("x", 51), Address: "1 Main St", Website: "https://globex.test", Description: "d", Tel: "555"},
			"name can not be more than 50 characters",
		},
		{
			"bad website",
			companyReq{Name: "Globex", Address: "1 Main St", Website: "not a url", Description: "d", Tel: "555"},
			"website must be a valid URL",
		},
		{
			"short postal code",
			jobfairReq{Name: "Fair", Address: "a", District: "d", Province: "p", Postalcode: "123", Region: "north"},
			"postalcode is malformed",
		},
		{
			"non-numeric postal code",
			jobfairReq{Name: "Fair", Address: "a", District: "d", Province: "p", Postalcode: "12a45", Region: "north"},
			"postalcode is malformed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if err == nil {
				t.Fatal("validation passed, expected a failure")
			}
			if got := validationMessage(err); got != tc.want {
				t.Errorf("validationMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidRequestsPass(t *testing.T) {
	v := validator.New()

	if err := v.Struct(companyReq{
		Name: "Globex", Address: "1 Main St", Website: "https://globex.test",
		Description: "Interviews all week", Tel: "02-555-0100",
	}); err != nil {
		t.Errorf("valid company rejected: %v", err)
	}
	// Tel is optional for job fairs.
	if err := v.Struct(jobfairReq{
		Name: "Bangkok Job Fair", Address: "99 Expo Rd", District: "Bang Na",
		Province: "Bangkok", Postalcode: "10260", Region: "central",
	}); err != nil {
		t.Errorf("valid jobfair rejected: %v", err)
	}
}

func TestBookingDateReqChosen(t *testing.T) {
	d1 := time.Date(2022, 5, 11, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2022, 5, 12, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		in      bookingDateReq
		want    time.Time
		present bool
	}{
		{"canonical field", bookingDateReq{Date: &d1}, d1, true},
		{"apptDate alias", bookingDateReq{ApptDate: &d1}, d1, true},
		{"resvDate alias", bookingDateReq{ResvDate: &d2}, d2, true},
		{"canonical wins over alias", bookingDateReq{Date: &d1, ApptDate: &d2}, d1, true},
		{"empty body", bookingDateReq{}, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, present := tc.in.chosen()
			if present != tc.present {
				t.Fatalf("chosen() present = %v, want %v", present, tc.present)
			}
			if present && !got.Equal(tc.want) {
				t.Errorf("chosen() = %s, want %s", got, tc.want)
			}
		})
	}
}
