package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/snapshot"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics and /export).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// RecordRequest is the body of POST /records and PUT /records/{id}.
type RecordRequest struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	DateOfBirth     string          `json:"date_of_birth"`
	Sex             string          `json:"sex"`
	NumberOfReviews int             `json:"number_of_reviews"`
	Salary          decimal.Decimal `json:"salary"`
}

// Fields converts the request into record fields. Only the date format and
// the salary range are checked here; every other rule belongs to the
// validation pipeline.
func (req RecordRequest) Fields() (domain.Fields, error) {
	dob, err := domain.ParseDate(req.DateOfBirth)
	if err != nil {
		return domain.Fields{}, fmt.Errorf("date_of_birth must use the %s layout", "MM/dd/yyyy")
	}
	if err := domain.CheckSalary(req.Salary); err != nil {
		return domain.Fields{}, fmt.Errorf("salary: %v", err)
	}
	return domain.Fields{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DateOfBirth:     dob,
		Sex:             domain.Sex(strings.ToUpper(strings.TrimSpace(req.Sex))),
		NumberOfReviews: req.NumberOfReviews,
		Salary:          req.Salary,
	}, nil
}

// RecordResponse represents a record in API responses.
type RecordResponse struct {
	ID              int             `json:"id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	DateOfBirth     string          `json:"date_of_birth"`
	Sex             string          `json:"sex"`
	NumberOfReviews int             `json:"number_of_reviews"`
	Salary          decimal.Decimal `json:"salary"`
}

func recordToResponse(r domain.Record) RecordResponse {
	return RecordResponse{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		DateOfBirth:     domain.FormatDate(r.DateOfBirth),
		Sex:             string(r.Sex),
		NumberOfReviews: r.NumberOfReviews,
		Salary:          r.Salary,
	}
}

// ListRecordsResponse is the response body for GET /records.
type ListRecordsResponse struct {
	Items []RecordResponse `json:"items"`
	Total int              `json:"total"`
}

func recordsToResponse(records []domain.Record) ListRecordsResponse {
	items := make([]RecordResponse, len(records))
	for i, r := range records {
		items[i] = recordToResponse(r)
	}
	return ListRecordsResponse{Items: items, Total: len(items)}
}

// CreateRecordResponse is the response body for POST /records.
type CreateRecordResponse struct {
	ID int `json:"id"`
}

// RestoreResponse reports the outcome of an import or archive restore.
type RestoreResponse struct {
	Accepted   int                `json:"accepted"`
	Rejected   int                `json:"rejected"`
	Rejections []domain.Rejection `json:"rejections"`
	Snapshot   *snapshot.Info     `json:"snapshot,omitempty"`
}

func restoreToResponse(res *domain.RestoreResult, info *snapshot.Info) RestoreResponse {
	rejections := res.Rejections
	if rejections == nil {
		rejections = []domain.Rejection{}
	}
	return RestoreResponse{
		Accepted:   res.Accepted,
		Rejected:   len(rejections),
		Rejections: rejections,
		Snapshot:   info,
	}
}

// RestoreSnapshotRequest is the body of POST /admin/v1/snapshots/restore.
// An empty ID selects the latest valid archive.
type RestoreSnapshotRequest struct {
	ID string `json:"id"`
}

// ListSnapshotsResponse is the response body for GET /admin/v1/snapshots.
type ListSnapshotsResponse struct {
	Snapshots []*snapshot.Info `json:"snapshots"`
}
