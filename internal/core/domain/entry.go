package domain

import (
	"strings"
	"time"
)

// EntryType distinguishes the two kinds of tracked person.
type EntryType string

const (
	EntryCustomer EntryType = "Customer"
	EntryBroker   EntryType = "Broker"
)

// BrokerDetails is only present on Broker entries.
type BrokerDetails struct {
	Name      string
	FirmName  string
	ContactNo string
}

func (b *BrokerDetails) complete() bool {
	return b != nil &&
		strings.TrimSpace(b.Name) != "" &&
		strings.TrimSpace(b.FirmName) != "" &&
		strings.TrimSpace(b.ContactNo) != ""
}

// Entry is a customer or broker registered against a project.
type Entry struct {
	ID        string
	Name      string
	Phone     string
	Type      EntryType
	Image     string
	Project   Project
	Remarks   string
	Broker    *BrokerDetails
	CreatedBy string
	Creator   *Creator
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate matches on the entry type. Customer entries never keep broker
// details; Broker entries must carry all three fields.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" || e.Type == "" {
		return ErrEntryNameTypeRequired
	}
	switch e.Type {
	case EntryCustomer:
		e.Broker = nil
	case EntryBroker:
		if !e.Broker.complete() {
			return ErrBrokerFieldsRequired
		}
	default:
		return ErrInvalidEntryType
	}
	if e.Project == "" {
		return ErrEntryProjectRequired
	}
	if !e.Project.Valid() {
		return ErrInvalidProject
	}
	return nil
}
