package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TimetableRecord is a raw row read from the timetable source file.
type TimetableRecord struct {
	Day       string `json:"Day"`
	Class     string `json:"Class"`
	Subject   string `json:"Subject"`
	StartTime string `json:"StartTime"`
	EndTime   string `json:"EndTime"`
	Period    string `json:"Period"`
	// Malformed marks an array element that could not be decoded as a record.
	Malformed bool   `json:"-"`
}

// UnmarshalJSON accepts numbers, booleans and nulls for any field so that
// spreadsheet exports (e.g. numeric periods) decode without failing the row.
func (r *TimetableRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timetable record: %w", err)
	}
	r.Day = flexString(raw["Day"])
	r.Class = flexString(raw["Class"])
	r.Subject = flexString(raw["Subject"])
	r.StartTime = flexString(raw["StartTime"])
	r.EndTime = flexString(raw["EndTime"])
	r.Period = flexString(raw["Period"])
	return nil
}

func flexString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}
