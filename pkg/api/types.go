// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/deal"
)

// Timestamp is an ISO-8601 string as sent by the backend. The backend is not
// consistent about zone suffixes, so parsing is deferred to Time.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time parses the timestamp. Values without a zone are read as UTC.
func (t Timestamp) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, string(t)); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// NewTimestamp formats t as an RFC 3339 UTC timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(time.RFC3339Nano))
}

type User struct {
	ID           int64    `json:"id"`
	TgUserID     int64    `json:"tg_user_id"`
	TgUsername   *string  `json:"tg_username"`
	Roles        []string `json:"roles"`
	LinkedWallet *string  `json:"linked_wallet"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Deal is the central entity. Money is carried as decimals to avoid float
// drift when converting to nanotons.
type Deal struct {
	ID                    int64               `json:"id"`
	ListingID             *int64              `json:"listing_id"`
	RequestID             *int64              `json:"request_id"`
	AdvertiserID          int64               `json:"advertiser_id"`
	ChannelID             int64               `json:"channel_id"`
	Price                 decimal.NullDecimal `json:"price"`
	Format                *string             `json:"format"`
	Brief                 *string             `json:"brief"`
	PublishAt             *Timestamp          `json:"publish_at"`
	VerificationWindow    *int                `json:"verification_window"`
	Status                deal.Status         `json:"status"`
	PostedMessageID       *int64              `json:"posted_message_id"`
	PostedAt              *Timestamp          `json:"posted_at"`
	VerificationStartedAt *Timestamp          `json:"verification_started_at"`
	Tampered              bool                `json:"tampered"`
	Deleted               bool                `json:"deleted"`
	CreatedAt             Timestamp           `json:"created_at"`
	UpdatedAt             Timestamp           `json:"updated_at"`

	// ViewerRole is honoured when the backend reports it.
	ViewerRole deal.Role `json:"viewer_role,omitempty"`

	Channel        *Channel            `json:"channel,omitempty"`
	ChannelInfo    *DealChannelInfo    `json:"channel_info,omitempty"`
	AdvertiserInfo *DealAdvertiserInfo `json:"advertiser_info,omitempty"`
	Events         []DealEvent         `json:"events,omitempty"`
}

type DealChannelInfo struct {
	ID                   int64    `json:"id"`
	Username             *string  `json:"username"`
	Title                *string  `json:"title"`
	Subscribers          *int64   `json:"subscribers"`
	ViewsPerPost         *float64 `json:"views_per_post"`
	SharesPerPost        *float64 `json:"shares_per_post"`
	ReactionsPerPost     *float64 `json:"reactions_per_post"`
	EnabledNotifications *float64 `json:"enabled_notifications"`
	SubscribersPrev      *int64   `json:"subscribers_prev"`
	ViewsPerPostPrev     *float64 `json:"views_per_post_prev"`
	SharesPerPostPrev    *float64 `json:"shares_per_post_prev"`
	ReactionsPerPostPrev *float64 `json:"reactions_per_post_prev"`
}

// DisplayName prefers the title, then @username, then the channel id.
func (c *DealChannelInfo) DisplayName() string {
	if c.Title != nil && *c.Title != "" {
		return *c.Title
	}
	if c.Username != nil && *c.Username != "" {
		return "@" + *c.Username
	}
	return "#" + strconv.FormatInt(c.ID, 10)
}

type DealAdvertiserInfo struct {
	ID         int64   `json:"id"`
	TgUsername *string `json:"tg_username"`
}

// EventType tags a DealEvent.
type EventType string

const (
	EventDealCreated        EventType = "DEAL_CREATED"
	EventTermsLocked        EventType = "TERMS_LOCKED"
	EventStatusUpdated      EventType = "STATUS_UPDATED"
	EventPublishAtUpdated   EventType = "PUBLISH_AT_UPDATED"
	EventPublishAtRequested EventType = "PUBLISH_AT_REQUESTED"
	EventCreativeSubmitted  EventType = "CREATIVE_SUBMITTED"
	EventCreativeStatus     EventType = "CREATIVE_STATUS"
	EventAdvertiserBrief    EventType = "ADVERTISER_BRIEF"
)

type DealEvent struct {
	ID        int64           `json:"id"`
	DealID    int64           `json:"deal_id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt Timestamp       `json:"created_at"`
}

type CreativeStatus string

const (
	CreativeDraft    CreativeStatus = "DRAFT"
	CreativeApproved CreativeStatus = "APPROVED"
)

type Creative struct {
	ID           int64          `json:"id"`
	DealID       int64          `json:"deal_id"`
	Version      int            `json:"version"`
	Text         *string        `json:"text"`
	MediaFileIDs []MediaFileID  `json:"media_file_ids"`
	Status       CreativeStatus `json:"status"`
	CreatedAt    Timestamp      `json:"created_at"`
}

type MediaType string

const (
	MediaPhoto     MediaType = "photo"
	MediaVideo     MediaType = "video"
	MediaAnimation MediaType = "animation"
	MediaDocument  MediaType = "document"
)

// Valid reports whether m is a media kind the bot can resend.
func (m MediaType) Valid() bool {
	switch m {
	case MediaPhoto, MediaVideo, MediaAnimation, MediaDocument:
		return true
	}
	return false
}

type MediaFileID struct {
	Type   MediaType `json:"type"`
	FileID string    `json:"file_id"`
}

// UploadedMedia is the result of a media upload.
type UploadedMedia struct {
	Type      MediaType `json:"type"`
	FileID    string    `json:"file_id"`
	MessageID *int64    `json:"message_id,omitempty"`
}

// Ref drops the upload metadata.
func (u UploadedMedia) Ref() MediaFileID {
	return MediaFileID{Type: u.Type, FileID: u.FileID}
}

type EscrowPayment struct {
	ID             int64               `json:"id"`
	DealID         int64               `json:"deal_id"`
	DepositAddress string              `json:"deposit_address"`
	DepositComment *string             `json:"deposit_comment"`
	DepositKey     *string             `json:"deposit_key"`
	ExpectedAmount decimal.NullDecimal `json:"expected_amount"`
	TxHash         *string             `json:"tx_hash"`
	ConfirmedAt    *Timestamp          `json:"confirmed_at"`
	ReleaseTxHash  *string             `json:"release_tx_hash"`
	RefundTxHash   *string             `json:"refund_tx_hash"`
	PayoutAddress  *string             `json:"payout_address"`
	RefundAddress  *string             `json:"refund_address"`
	ReleasedAt     *Timestamp          `json:"released_at"`
	RefundedAt     *Timestamp          `json:"refunded_at"`
	CreatedAt      Timestamp           `json:"created_at"`
}

// Confirmed reports whether the deposit has been seen on chain. A confirmed
// deposit is never paid again.
func (e *EscrowPayment) Confirmed() bool {
	return e.ConfirmedAt != nil && *e.ConfirmedAt != ""
}

// Comment returns the payment memo, or "".
func (e *EscrowPayment) Comment() string {
	if e.DepositComment == nil {
		return ""
	}
	return *e.DepositComment
}

type Listing struct {
	ID          int64               `json:"id"`
	ChannelID   int64               `json:"channel_id"`
	PriceTON    decimal.NullDecimal `json:"price_ton"`
	PriceUSD    decimal.NullDecimal `json:"price_usd"`
	Format      string              `json:"format"`
	Categories  []string            `json:"categories"`
	Constraints *Attributes         `json:"constraints"`
	Active      bool                `json:"active"`
	CreatedAt   Timestamp           `json:"created_at"`
	Channel     *ChannelBrief       `json:"channel,omitempty"`
}

type ChannelBrief struct {
	ID       int64         `json:"id"`
	Username *string       `json:"username"`
	Title    *string       `json:"title"`
	Stats    *ChannelStats `json:"stats"`
}

type RequestItem struct {
	ID           int64               `json:"id"`
	AdvertiserID int64               `json:"advertiser_id"`
	Budget       decimal.NullDecimal `json:"budget"`
	Niche        *string             `json:"niche"`
	Languages    []string            `json:"languages"`
	MinSubs      *int64              `json:"min_subs"`
	MinViews     *int64              `json:"min_views"`
	Dates        *Attributes         `json:"dates"`
	Brief        *string             `json:"brief"`
	CreatedAt    Timestamp           `json:"created_at"`
}

type Channel struct {
	ID             int64         `json:"id"`
	TgChatID       int64         `json:"tg_chat_id"`
	Username       *string       `json:"username"`
	Title          *string       `json:"title"`
	OwnerUserID    int64         `json:"owner_user_id"`
	BotAdminStatus bool          `json:"bot_admin_status"`
	CreatedAt      Timestamp     `json:"created_at"`
	Stats          *ChannelStats `json:"stats,omitempty"`
}

// DisplayName prefers the title, then @username, then the chat id.
func (c *Channel) DisplayName() string {
	if c.Title != nil && *c.Title != "" {
		return *c.Title
	}
	if c.Username != nil && *c.Username != "" {
		return "@" + *c.Username
	}
	return "#" + strconv.FormatInt(c.TgChatID, 10)
}

type ChannelStats struct {
	ID                   int64          `json:"id"`
	ChannelID            int64          `json:"channel_id"`
	Subscribers          *int64         `json:"subscribers"`
	ViewsPerPost         *float64       `json:"views_per_post"`
	SharesPerPost        *float64       `json:"shares_per_post"`
	ReactionsPerPost     *float64       `json:"reactions_per_post"`
	EnabledNotifications *float64       `json:"enabled_notifications"`
	SubscribersPrev      *int64         `json:"subscribers_prev"`
	ViewsPerPostPrev     *float64       `json:"views_per_post_prev"`
	SharesPerPostPrev    *float64       `json:"shares_per_post_prev"`
	ReactionsPerPostPrev *float64       `json:"reactions_per_post_prev"`
	Languages            map[string]any `json:"languages_json"`
	Premium              map[string]any `json:"premium_json"`
	UpdatedAt            *Timestamp     `json:"updated_at"`
	Source               *string        `json:"source"`
}

type Manager struct {
	ID          int64          `json:"id"`
	ChannelID   int64          `json:"channel_id"`
	UserID      int64          `json:"user_id"`
	TgUserID    int64          `json:"tg_user_id"`
	TgUsername  *string        `json:"tg_username"`
	Permissions map[string]any `json:"permissions"`
}

type TgAdmin struct {
	TgUserID   int64   `json:"tg_user_id"`
	TgUsername *string `json:"tg_username"`
	FirstName  string  `json:"first_name"`
	Status     string  `json:"status"`
}
