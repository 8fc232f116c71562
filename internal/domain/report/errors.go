package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrUnsupportedFormat      = errors.New("format must be one of: document, spreadsheet, delimited-text")
	ErrInvalidGroupBy         = errors.New("group_by must be one of: user, department")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
