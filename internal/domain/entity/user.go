package entity

// UserInfo is the canonical user document. It is the only shape written to the
// users collection.
type UserInfo struct {
	UID       string   `json:"uid" firestore:"uid"`
	FcmToken  string   `json:"fcmToken,omitempty" firestore:"fcmToken"`
	IsCreator bool     `json:"isCreator" firestore:"isCreator"`
	IsArtist  bool     `json:"isArtist" firestore:"isArtist"`
	Migrated  bool     `json:"migrated" firestore:"migrated"`
	Profile   Profile  `json:"profile" firestore:"profile"`
	Location  Location `json:"location" firestore:"location"`
	Metrics   Metrics  `json:"metrics" firestore:"metrics"`
}

type Profile struct {
	Image          string `json:"image" firestore:"image"`
	Cover          string `json:"cover" firestore:"cover"`
	Name           string `json:"name" firestore:"name"`
	Username       string `json:"username" firestore:"username"`
	Bio            string `json:"bio" firestore:"bio"`
	TotalFollowing int64  `json:"total_following" firestore:"total_following"`
	TotalFollowers int64  `json:"total_followers" firestore:"total_followers"`
	EmailAddress   string `json:"email_address,omitempty" firestore:"email_address"`
	Links          Links  `json:"links" firestore:"links"`
	Web3           Web3   `json:"web3" firestore:"web3"`
}

// Links holds the social links shown on a profile. TikTok and YouTube are
// optional and only written once set.
type Links struct {
	Website   string `json:"website" firestore:"website"`
	Spotify   string `json:"spotify" firestore:"spotify"`
	Itunes    string `json:"itunes" firestore:"itunes"`
	Instagram string `json:"instagram" firestore:"instagram"`
	Twitter   string `json:"twitter" firestore:"twitter"`
	Tiktok    string `json:"tiktok,omitempty" firestore:"tiktok,omitempty"`
	Youtube   string `json:"youtube,omitempty" firestore:"youtube,omitempty"`
}

type Web3 struct {
	PublicAddress string `json:"public_address" firestore:"public_address"`
}

type Location struct {
	City        string  `json:"city" firestore:"city"`
	State       string  `json:"state" firestore:"state"`
	Country     string  `json:"country" firestore:"country"`
	Latitude    float64 `json:"latitude" firestore:"latitude"`
	Longitude   float64 `json:"longitude" firestore:"longitude"`
	Geohash     string  `json:"geohash" firestore:"geohash"`
	CountryCode string  `json:"country_code" firestore:"country_code"`
}

type Metrics struct {
	MusicWebApp   WebAppMetrics `json:"music_web_app" firestore:"music_web_app"`
	MusicIosApp   IosAppMetrics `json:"music_ios_app" firestore:"music_ios_app"`
	LastLogin     int64         `json:"lastLogin" firestore:"lastLogin"`
	ProfileVisits int64         `json:"profile_visits" firestore:"profile_visits"`
}

type WebAppMetrics struct {
	SignInCount int64 `json:"signInCount" firestore:"signInCount"`
}

type IosAppMetrics struct {
	Version   string `json:"version" firestore:"version"`
	OpenCount int64  `json:"openCount" firestore:"openCount"`
}

// Redacted returns a copy without the fields only the owner may see.
func (u *UserInfo) Redacted() *UserInfo {
	c := *u
	c.FcmToken = ""
	c.Profile.EmailAddress = ""
	return &c
}

// NewDefaultUserInfo returns the record synthesized for an identifier that has
// no document yet.
func NewDefaultUserInfo(uid string) *UserInfo {
	return &UserInfo{
		UID:      uid,
		Migrated: true,
	}
}

// UserRecord is a user document as read from the store, in whichever shape it
// was found. Exactly one of Info and Legacy is set.
type UserRecord struct {
	ID     string
	Info   *UserInfo
	Legacy *LegacyUser
}

// Migrated reports whether the record passed the migration gate.
func (r *UserRecord) Migrated() bool {
	return r.Info != nil && r.Info.Migrated
}
