package models

import (
	"strings"
	"time"
)

// Account is a portal user as persisted by the credential store. The
// challenge fields back at most one outstanding OTP per channel.
type Account struct {
	ID              string    `json:"id" db:"id" bson:"_id"`
	Name            string    `json:"name" db:"name" bson:"name"`
	Email           string    `json:"email" db:"email" bson:"email"`
	Phone           string    `json:"phone,omitempty" db:"phone" bson:"phone,omitempty"`
	Role            Role      `json:"role" db:"role" bson:"role"`
	PasswordHash    string    `json:"-" db:"password_hash" bson:"password_hash"`
	EmailVerified   bool      `json:"emailVerified" db:"email_verified" bson:"email_verified"`
	PhoneVerified   bool      `json:"phoneVerified" db:"phone_verified" bson:"phone_verified"`
	EmailOTPHash    string    `json:"-" db:"email_otp_hash" bson:"email_otp_hash,omitempty"`
	EmailOTPExpires time.Time `json:"-" db:"email_otp_expires" bson:"email_otp_expires,omitempty"`
	PhoneOTPHash    string    `json:"-" db:"phone_otp_hash" bson:"phone_otp_hash,omitempty"`
	PhoneOTPExpires time.Time `json:"-" db:"phone_otp_expires" bson:"phone_otp_expires,omitempty"`
	Created         time.Time `json:"created" db:"created" bson:"created"`
	Updated         time.Time `json:"updated" db:"updated" bson:"updated"`
}

// Verified reports the verification flag for ch.
func (a *Account) Verified(ch Channel) bool {
	if ch == ChannelPhone {
		return a.PhoneVerified
	}
	return a.EmailVerified
}

// Challenge returns the stored hash and expiry for ch.
func (a *Account) Challenge(ch Channel) (string, time.Time) {
	if ch == ChannelPhone {
		return a.PhoneOTPHash, a.PhoneOTPExpires
	}
	return a.EmailOTPHash, a.EmailOTPExpires
}

// Job is an employer posting going through moderation.
type Job struct {
	ID            string    `json:"id" db:"id" bson:"_id"`
	Title         string    `json:"title" db:"title" bson:"title"`
	Company       string    `json:"company" db:"company" bson:"company"`
	Location      string    `json:"location,omitempty" db:"location" bson:"location,omitempty"`
	Type          string    `json:"type,omitempty" db:"type" bson:"type,omitempty"`
	Salary        string    `json:"salary,omitempty" db:"salary" bson:"salary,omitempty"`
	Description   string    `json:"description,omitempty" db:"description" bson:"description,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty" db:"contact_email" bson:"contact_email,omitempty"`
	CreatorID     string    `json:"creatorId,omitempty" db:"creator_id" bson:"creator_id,omitempty"`
	Status        JobStatus `json:"status" db:"status" bson:"status"`
	AdminFeedback string    `json:"adminFeedback,omitempty" db:"admin_feedback" bson:"admin_feedback"`
	Created       time.Time `json:"created" db:"created" bson:"created"`
	Updated       time.Time `json:"updated" db:"updated" bson:"updated"`
}

// Notification is an inbox entry routed either to one account or to a
// whole role. Exactly one of TargetUserID and TargetRole is set.
type Notification struct {
	ID           string           `json:"id" db:"id" bson:"_id"`
	TargetUserID string           `json:"targetUserId,omitempty" db:"target_user_id" bson:"target_user_id,omitempty"`
	TargetRole   Role             `json:"targetRole,omitempty" db:"target_role" bson:"target_role,omitempty"`
	Kind         NotificationKind `json:"kind" db:"kind" bson:"kind"`
	Title        string           `json:"title" db:"title" bson:"title"`
	Message      string           `json:"message" db:"message" bson:"message"`
	Link         string           `json:"link,omitempty" db:"link" bson:"link,omitempty"`
	Read         bool             `json:"read" db:"read" bson:"read"`
	Created      time.Time        `json:"createdAt" db:"created" bson:"created"`
}

// Audience is the set of routing keys whose notifications a viewer sees.
type Audience struct {
	UserID string
	Roles  []Role
}

// NormalizeEmail lower-cases and trims an address for lookup and storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone strips surrounding whitespace and inner spaces.
func NormalizePhone(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}
