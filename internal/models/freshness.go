// Package models defines the data structures of an observatory snapshot.
// It includes entity definitions for datasets, organizations and resource checks.
package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type FreshnessBucket string

const (
	BucketGreen   FreshnessBucket = "green"
	BucketYellow  FreshnessBucket = "yellow"
	BucketRed     FreshnessBucket = "red"
	BucketUnknown FreshnessBucket = "unknown"
)

// Buckets lists every freshness bucket in display order.
var Buckets = []FreshnessBucket{BucketGreen, BucketYellow, BucketRed, BucketUnknown}

func (b FreshnessBucket) Valid() bool {
	switch b {
	case BucketGreen, BucketYellow, BucketRed, BucketUnknown:
		return true
	}
	return false
}

// Label is the display form of the bucket name.
func (b FreshnessBucket) Label() string {
	return cases.Title(language.Und).String(string(b))
}

type FreshnessCounts struct {
	Green   int `json:"green"`
	Yellow  int `json:"yellow"`
	Red     int `json:"red"`
	Unknown int `json:"unknown"`
}

func (c FreshnessCounts) Total() int {
	return c.Green + c.Yellow + c.Red + c.Unknown
}

// Get returns the counter for bucket b, or 0 for a bucket outside the set.
func (c FreshnessCounts) Get(b FreshnessBucket) int {
	switch b {
	case BucketGreen:
		return c.Green
	case BucketYellow:
		return c.Yellow
	case BucketRed:
		return c.Red
	case BucketUnknown:
		return c.Unknown
	}
	return 0
}
