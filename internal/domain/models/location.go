// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// LocationType is the abstract tag on an Event selecting which provider pair
// backs its meetings.
type LocationType string

const (
	LocationTypeGoogleMeetAndCalendar LocationType = "GOOGLE_MEET_AND_CALENDAR"
	// LocationTypeZoomMeeting is a Zoom session tracked on Google Calendar.
	LocationTypeZoomMeeting      LocationType = "ZOOM_MEETING"
	LocationTypeOutlookWithZoom  LocationType = "OUTLOOK_WITH_ZOOM"
	LocationTypeOutlookWithTeams LocationType = "OUTLOOK_WITH_TEAMS"
	LocationTypeGoogleWithTeams  LocationType = "GOOGLE_WITH_TEAMS"
)

// MeetingCombination identifies one (meeting provider, calendar provider) pair.
type MeetingCombination string

const (
	CombinationGoogleMeetGoogleCalendar MeetingCombination = "GOOGLE_MEET_GOOGLE_CALENDAR"
	CombinationZoomGoogleCalendar       MeetingCombination = "ZOOM_GOOGLE_CALENDAR"
	CombinationZoomOutlookCalendar      MeetingCombination = "ZOOM_OUTLOOK_CALENDAR"
	CombinationTeamsOutlookCalendar     MeetingCombination = "TEAMS_OUTLOOK_CALENDAR"
	CombinationTeamsGoogleCalendar      MeetingCombination = "TEAMS_GOOGLE_CALENDAR"
)

// Provider names as registered in the provider registry.
const (
	ProviderZoom            = "zoom"
	ProviderGoogleMeet      = "google_meet"
	ProviderGoogleCalendar  = "google_calendar"
	ProviderOutlookCalendar = "outlook_calendar"
	ProviderMicrosoftTeams  = "microsoft_teams"
)

// AppKind is the connected application an Integration authorizes.
type AppKind string

const (
	AppKindGoogleMeetAndCalendar AppKind = "GOOGLE_MEET_AND_CALENDAR"
	AppKindZoomMeeting           AppKind = "ZOOM_MEETING"
	AppKindOutlookCalendar       AppKind = "OUTLOOK_CALENDAR"
	AppKindMicrosoftTeams        AppKind = "MICROSOFT_TEAMS"
)

// AllAppKinds lists every app kind a user can connect.
var AllAppKinds = []AppKind{
	AppKindGoogleMeetAndCalendar,
	AppKindZoomMeeting,
	AppKindOutlookCalendar,
	AppKindMicrosoftTeams,
}

// IsValid reports whether the app kind is known.
func (k AppKind) IsValid() bool {
	for _, known := range AllAppKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ProviderKind is the identity provider that issued an Integration's tokens.
type ProviderKind string

const (
	ProviderKindGoogle    ProviderKind = "GOOGLE"
	ProviderKindZoom      ProviderKind = "ZOOM"
	ProviderKindMicrosoft ProviderKind = "MICROSOFT"
)

// ProviderKind returns the OAuth issuer for the app kind.
func (k AppKind) ProviderKind() ProviderKind {
	switch k {
	case AppKindZoomMeeting:
		return ProviderKindZoom
	case AppKindOutlookCalendar, AppKindMicrosoftTeams:
		return ProviderKindMicrosoft
	default:
		return ProviderKindGoogle
	}
}

// AppKindForProvider returns the integration that authorizes calls to the
// named provider.
func AppKindForProvider(provider string) (AppKind, bool) {
	switch provider {
	case ProviderZoom:
		return AppKindZoomMeeting, true
	case ProviderGoogleMeet, ProviderGoogleCalendar:
		return AppKindGoogleMeetAndCalendar, true
	case ProviderOutlookCalendar:
		return AppKindOutlookCalendar, true
	case ProviderMicrosoftTeams:
		return AppKindMicrosoftTeams, true
	}
	return "", false
}

// MeetingSettings are provider-side defaults applied to new sessions.
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	WaitingRoom      bool   `json:"waiting_room"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	Audio            string `json:"audio"`
	AutoRecording    string `json:"auto_recording"`
}

// DefaultMeetingSettings returns the settings used when a combination does
// not override them.
func DefaultMeetingSettings() MeetingSettings {
	return MeetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		WaitingRoom:      false,
		JoinBeforeHost:   true,
		Audio:            "both",
		AutoRecording:    "none",
	}
}

// CombinationConfig is the static configuration of one MeetingCombination.
type CombinationConfig struct {
	Combination          MeetingCombination `json:"combination"`
	MeetingProvider      string             `json:"meeting_provider"`
	CalendarProvider     string             `json:"calendar_provider"`
	RequiredIntegrations []AppKind          `json:"required_integrations"`
	Implemented          bool               `json:"implemented"`
	DefaultSettings      MeetingSettings    `json:"default_settings"`
}

// StrategyName is the "<meeting>+<calendar>" name a strategy for this
// combination reports.
func (c CombinationConfig) StrategyName() string {
	return c.MeetingProvider + "+" + c.CalendarProvider
}

// LocationTypeInfo describes a location type for clients choosing one.
type LocationTypeInfo struct {
	LocationType         LocationType       `json:"location_type"`
	Combination          MeetingCombination `json:"combination"`
	MeetingProvider      string             `json:"meeting_provider"`
	CalendarProvider     string             `json:"calendar_provider"`
	RequiredIntegrations []AppKind          `json:"required_integrations"`
	Implemented          bool               `json:"implemented"`
	Available            bool               `json:"available"`
}
