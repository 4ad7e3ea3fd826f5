package ginserver

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ratedesk/internal/domain/day"
)

// registerValidations installs the cross-field rules the tag syntax cannot
// express: window bounds must be ordered and bookings must span at least
// one night. Field-level format errors are reported by the datetime tag.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterStructValidation(validateWindowOrder, openSessionRequest{}, windowRequest{})
	v.RegisterStructValidation(validateLocalBooking, localBookingRequest{})
}

func validateWindowOrder(sl validator.StructLevel) {
	var from, to string
	switch req := sl.Current().Interface().(type) {
	case openSessionRequest:
		from, to = req.From, req.To
	case windowRequest:
		from, to = req.From, req.To
	}
	f, errF := day.Parse(from)
	t, errT := day.Parse(to)
	if errF != nil || errT != nil {
		return
	}
	if t.Before(f) {
		sl.ReportError(to, "To", "to", "gtefield", "From")
	}
}

func validateLocalBooking(sl validator.StructLevel) {
	req := sl.Current().Interface().(localBookingRequest)
	arrival, errA := day.Parse(req.Arrival)
	departure, errD := day.Parse(req.Departure)
	if errA != nil || errD != nil {
		return
	}
	if !arrival.Before(departure) {
		sl.ReportError(req.Departure, "Departure", "departure", "gtfield", "Arrival")
	}
}
