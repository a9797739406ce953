/*
Package models defines the JSON data structures exchanged with matnn.

These models are used for:
- **HTTP API**: request and response bodies of the multiplication server.
- **Golden fixtures**: the reference products checked by the matrix tests.
*/
package models

// MatrixPayload is the wire form of a dense matrix: its shape and its
// row-major elements.
type MatrixPayload struct {
	Rows     int       `json:"rows"`
	Columns  int       `json:"columns"`
	Elements []float64 `json:"elements"`
}

// MultiplyRequest asks the server for the product A·B.
type MultiplyRequest struct {
	A MatrixPayload `json:"a"`
	B MatrixPayload `json:"b"`
	// Algorithm selects a registered strategy ("naive", "strassen").
	// Empty selects the default.
	Algorithm string `json:"algorithm,omitempty"`
	// MinSize overrides the Strassen recursion cutoff for this request.
	MinSize int `json:"min_size,omitempty"`
}

// MultiplyResponse carries the product and timing information.
type MultiplyResponse struct {
	Algorithm string        `json:"algorithm"`
	Result    MatrixPayload `json:"result"`
	Duration  string        `json:"duration"`
}

// TransposeRequest asks the server for Mᵀ.
type TransposeRequest struct {
	Matrix MatrixPayload `json:"matrix"`
}

// TransposeResponse carries the transpose.
type TransposeResponse struct {
	Result MatrixPayload `json:"result"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GoldenCase is one entry of the product golden file.
type GoldenCase struct {
	Name    string        `json:"name"`
	A       MatrixPayload `json:"a"`
	B       MatrixPayload `json:"b"`
	Product MatrixPayload `json:"product"`
}
