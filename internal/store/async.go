package store

import "encoding/json"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusOk      Status = "ok"
	StatusErr     Status = "error"
)

// Phase suffixes of an async action type, e.g. "products/fetch/pending".
const (
	Pending   = "pending"
	Fulfilled = "fulfilled"
	Rejected  = "rejected"
)

// Async is the result of an asynchronous operation as seen by the view
// layer: Loading, Ok(data) or Err(message).
type Async[T any] struct {
	status  Status
	data    T
	message string
}

func Idle[T any]() Async[T] { return Async[T]{status: StatusIdle} }

func Loading[T any]() Async[T] { return Async[T]{status: StatusLoading} }

func Ok[T any](data T) Async[T] { return Async[T]{status: StatusOk, data: data} }

func Err[T any](message string) Async[T] { return Async[T]{status: StatusErr, message: message} }

func (a Async[T]) Status() Status { return a.status }

func (a Async[T]) IsOk() bool { return a.status == StatusOk }

// Data returns the payload and whether the result is Ok.
func (a Async[T]) Data() (T, bool) { return a.data, a.status == StatusOk }

func (a Async[T]) Message() string { return a.message }

func PendingType(op string) string   { return op + "/" + Pending }
func FulfilledType(op string) string { return op + "/" + Fulfilled }
func RejectedType(op string) string  { return op + "/" + Rejected }

type asyncJSON[T any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (a Async[T]) MarshalJSON() ([]byte, error) {
	out := asyncJSON[T]{Status: a.status, Error: a.message}
	if a.status == StatusOk {
		out.Data = &a.data
	}
	return json.Marshal(out)
}
