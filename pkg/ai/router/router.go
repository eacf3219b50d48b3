package router

// Route is the oracle's classification of a turn
type Route string

const (
	RouteRAG     Route = "rag"     // knowledge question answered from context
	RouteBooking Route = "booking" // interview booking intent
)

func (r Route) Valid() bool {
	return r == RouteRAG || r == RouteBooking
}

// BookingDraft holds whatever booking fields the oracle could extract.
// A nil field means missing or unclear.
type BookingDraft struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Date  *string `json:"date"` // YYYY-MM-DD
	Time  *string `json:"time"` // HH:MM
}

// Decision is a validated oracle output.
// RouteBooking implies Reply == nil; RouteRAG implies Booking == nil and Reply != nil.
type Decision struct {
	Route   Route
	Booking *BookingDraft
	Reply   *string
}

// Result is either Parsed or Malformed.
type Result interface {
	isResult()
}

type Parsed struct {
	Decision Decision
}

type Malformed struct {
	Raw    string
	Reason error
}

func (Parsed) isResult()    {}
func (Malformed) isResult() {}
