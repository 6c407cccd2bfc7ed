package booking

import (
	"strconv"
	"time"

	"renthaven/internal/domain"
	pkgvalidator "renthaven/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// ValidateCreateBooking applies the booking schema and returns either a
// normalized input or every violated field. Deposits skip the date range.
func ValidateCreateBooking(req CreateBookingRequest) (*BookingInput, map[string]string) {
	violations := pkgvalidator.Validate(req)
	if violations == nil {
		violations = map[string]string{}
	}

	in := &BookingInput{
		Recurring:   req.Recurring,
		PhoneNumber: req.PhoneNumber,
		PaymentType: domain.PaymentType(req.PaymentType),
	}

	if _, seen := violations["ApartmentID"]; !seen && req.ApartmentID != "" {
		id, err := strconv.ParseInt(req.ApartmentID, 10, 64)
		if err != nil || id <= 0 {
			violations["ApartmentID"] = "numeric"
		} else {
			in.ApartmentID = id
		}
	}

	if _, seen := violations["TotalAmount"]; !seen && req.TotalAmount != "" {
		amount, err := strconv.ParseFloat(req.TotalAmount, 64)
		switch {
		case err != nil:
			violations["TotalAmount"] = "numeric"
		case amount <= 0:
			violations["TotalAmount"] = "gt"
		default:
			in.TotalAmount = amount
		}
	}

	isDeposit := in.PaymentType == domain.PaymentTypeDeposit

	start, startViolation := parseDate(req.StartDate, !isDeposit)
	if startViolation != "" {
		violations["StartDate"] = startViolation
	}
	end, endViolation := parseDate(req.EndDate, !isDeposit)
	if endViolation != "" {
		violations["EndDate"] = endViolation
	}
	in.StartDate = start
	in.EndDate = end

	if !isDeposit && start != nil && end != nil && !end.After(*start) {
		violations["EndDate"] = "gtfield"
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return in, nil
}

func parseDate(raw string, required bool) (*time.Time, string) {
	if raw == "" {
		if required {
			return nil, "required"
		}
		return nil, ""
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, "datetime"
	}
	return &t, ""
}
