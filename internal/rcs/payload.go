package rcs

// Wire types for RBM agent messages. The flat shape below is the canonical
// payload stored and rendered by the simulator; the Google RBM wrapper shape
// is reconciled into it by NormalizePayload before parsing.

type TrafficType string

const (
	TrafficTypeAuthentication  TrafficType = "AUTHENTICATION"
	TrafficTypeTransaction     TrafficType = "TRANSACTION"
	TrafficTypePromotion       TrafficType = "PROMOTION"
	TrafficTypeServiceRequest  TrafficType = "SERVICEREQUEST"
	TrafficTypeAcknowledgement TrafficType = "ACKNOWLEDGEMENT"
)

type MediaHeight string

const (
	MediaHeightShort  MediaHeight = "SHORT"
	MediaHeightMedium MediaHeight = "MEDIUM"
	MediaHeightTall   MediaHeight = "TALL"
)

type CardOrientation string

const (
	CardOrientationVertical   CardOrientation = "VERTICAL"
	CardOrientationHorizontal CardOrientation = "HORIZONTAL"
)

type AgentMessage struct {
	MessageID       string       `json:"messageId,omitempty"`
	Text            *string      `json:"text,omitempty" validate:"omitempty,max=3072"`
	RichCard        *RichCard    `json:"richCard,omitempty"`
	ContentInfo     *ContentInfo `json:"contentInfo,omitempty"`
	UploadedRbmFile *string      `json:"uploadedRbmFile,omitempty"`
	Suggestions     []Suggestion `json:"suggestions,omitempty" validate:"omitempty,max=11,dive"`
	TrafficType     TrafficType  `json:"trafficType,omitempty" validate:"omitempty,oneof=AUTHENTICATION TRANSACTION PROMOTION SERVICEREQUEST ACKNOWLEDGEMENT"`
	TTL             *string      `json:"ttl,omitempty"`
	ExpireTime      *string      `json:"expireTime,omitempty"`
}

type ContentInfo struct {
	FileURL      *string `json:"fileUrl,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	ForceRefresh *bool   `json:"forceRefresh,omitempty"`
}

type RichCard struct {
	StandaloneCard *StandaloneCard `json:"standaloneCard,omitempty"`
	CarouselCard   *CarouselCard   `json:"carouselCard,omitempty"`
}

type StandaloneCard struct {
	CardOrientation         CardOrientation `json:"cardOrientation" validate:"required,oneof=VERTICAL HORIZONTAL"`
	ThumbnailImageAlignment *string         `json:"thumbnailImageAlignment,omitempty" validate:"omitempty,oneof=LEFT RIGHT"`
	CardContent             CardContent     `json:"cardContent"`
}

type CarouselCard struct {
	CardWidth    string        `json:"cardWidth" validate:"required,oneof=SMALL MEDIUM"`
	CardContents []CardContent `json:"cardContents" validate:"dive"`
}

type CardContent struct {
	Title       *string      `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Media       *Media       `json:"media,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty" validate:"omitempty,max=4,dive"`
}

type Media struct {
	Height      MediaHeight `json:"height" validate:"required,oneof=SHORT MEDIUM TALL"`
	ContentInfo ContentInfo `json:"contentInfo"`
}

type Suggestion struct {
	Reply  *SuggestedReply  `json:"reply,omitempty"`
	Action *SuggestedAction `json:"action,omitempty"`
}

type SuggestedReply struct {
	Text         string `json:"text" validate:"required,max=25"`
	PostbackData string `json:"postbackData" validate:"required"`
}

type SuggestedAction struct {
	Text         string  `json:"text" validate:"required,max=25"`
	PostbackData string  `json:"postbackData" validate:"required"`
	FallbackURL  *string `json:"fallbackUrl,omitempty"`

	DialAction                *DialAction                `json:"dialAction,omitempty"`
	ViewLocationAction        *ViewLocationAction        `json:"viewLocationAction,omitempty"`
	CreateCalendarEventAction *CreateCalendarEventAction `json:"createCalendarEventAction,omitempty"`
	OpenURLAction             *OpenURLAction             `json:"openUrlAction,omitempty"`
	ShareLocationAction       *ShareLocationAction       `json:"shareLocationAction,omitempty"`
}

type DialAction struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type LatLong struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ViewLocationAction struct {
	LatLong *LatLong `json:"latLong,omitempty"`
	Label   *string  `json:"label,omitempty"`
	Query   *string  `json:"query,omitempty"`
}

type CreateCalendarEventAction struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	StartTime   string  `json:"startTime" validate:"required"`
	EndTime     string  `json:"endTime" validate:"required"`
}

type OpenURLAction struct {
	URL             string  `json:"url" validate:"required,url"`
	Application     *string `json:"application,omitempty"`
	WebviewViewMode *string `json:"webviewViewMode,omitempty"`
	Description     *string `json:"description,omitempty"`
}

type ShareLocationAction struct{}
