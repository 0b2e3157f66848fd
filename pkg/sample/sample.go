// Package sample holds plain data types used by the demo API. None of them
// know about the documentation system; they stand in for types imported
// from an external module.
package sample

// Greeting is the demo response payload.
type Greeting struct {
	Text string `json:"text"`
}
