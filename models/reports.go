package models

import "time"

// Report is a single crowd-sourced wait observation. Reports are
// append-only and never updated after insertion.
type Report struct {
	ReportID         string    `json:"reportid" bson:"reportid"`
	PlaceID          string    `json:"placeId" bson:"placeId"`
	WaitTimeReported int       `json:"waitTimeReported" bson:"waitTimeReported"`
	WaitTimeRange    string    `json:"waitTimeRange" bson:"waitTimeRange"`
	Timestamp        time.Time `json:"timestamp" bson:"timestamp"`
}
