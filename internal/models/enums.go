package models

import "fmt"

// Role is the account class used for authorization and notification routing.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleEmployer, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Channel is the medium an OTP challenge proves control of.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelEmail, ChannelPhone:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, s)
}

// JobStatus is a state of the moderation workflow.
type JobStatus string

const (
	JobPending        JobStatus = "pending"
	JobActive         JobStatus = "active"
	JobRejected       JobStatus = "rejected"
	JobRequestChanges JobStatus = "request_changes"
)

func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobPending, JobActive, JobRejected, JobRequestChanges:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown job status %q", ErrInvalidInput, s)
}

// NotificationKind drives the icon and grouping of an inbox entry.
type NotificationKind string

const (
	KindJob       NotificationKind = "job"
	KindMessage   NotificationKind = "message"
	KindInterview NotificationKind = "interview"
	KindSystem    NotificationKind = "system"
	KindVisitor   NotificationKind = "visitor"
)

func ParseNotificationKind(s string) (NotificationKind, error) {
	switch k := NotificationKind(s); k {
	case KindJob, KindMessage, KindInterview, KindSystem, KindVisitor:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown notification kind %q", ErrInvalidInput, s)
}
