package entity

import (
	"time"

	"github.com/spf13/cast"
)

// LegacyUser is the flat user document written by the first mobile app. New
// documents use UserInfo. Profile holds a nested "profile" map when one was
// merged into the document before it was migrated.
type LegacyUser struct {
	UID                string
	Name               string
	Username           string
	Bio                string
	Email              string
	PhotoURL           string
	CoverPhotoURL      string
	City               string
	State              string
	Country            string
	Lat                float64
	Lng                float64
	Geohash            string
	UserFollowersCount int64
	UserFollowingCount int64
	FcmToken           string
	IsArtist           bool
	AppVersion         string
	LastSignIn         int64
	Profile            map[string]interface{}
}

// LegacyUserFromMap decodes raw document data. Missing keys and values of an
// unexpected type decode to the zero value of the field.
func LegacyUserFromMap(data map[string]interface{}) *LegacyUser {
	var profile map[string]interface{}
	if raw, ok := data["profile"]; ok {
		profile = cast.ToStringMap(raw)
	}

	return &LegacyUser{
		UID:                cast.ToString(data["uid"]),
		Name:               cast.ToString(data["name"]),
		Username:           cast.ToString(data["username"]),
		Bio:                cast.ToString(data["bio"]),
		Email:              cast.ToString(data["email"]),
		PhotoURL:           cast.ToString(data["photoUrl"]),
		CoverPhotoURL:      cast.ToString(data["coverPhotoUrl"]),
		City:               cast.ToString(data["city"]),
		State:              cast.ToString(data["state"]),
		Country:            cast.ToString(data["country"]),
		Lat:                cast.ToFloat64(data["lat"]),
		Lng:                cast.ToFloat64(data["lng"]),
		Geohash:            cast.ToString(data["geohash"]),
		UserFollowersCount: cast.ToInt64(data["userFollowersCount"]),
		UserFollowingCount: cast.ToInt64(data["userFollowingCount"]),
		FcmToken:           cast.ToString(data["fcmToken"]),
		IsArtist:           cast.ToBool(data["isArtist"]),
		AppVersion:         cast.ToString(data["appVersion"]),
		LastSignIn:         epochMillis(data["lastSignIn"]),
		Profile:            profile,
	}
}

func epochMillis(v interface{}) int64 {
	if t, ok := v.(time.Time); ok {
		return t.UnixMilli()
	}
	return cast.ToInt64(v)
}

// ApplyPatch merges p into the nested profile map the way a merge write on the
// stored document would.
func (l *LegacyUser) ApplyPatch(p ProfilePatch) {
	if l.Profile == nil {
		l.Profile = make(map[string]interface{})
	}
	for path, value := range p.Fields() {
		if path == "web3.public_address" {
			web3 := cast.ToStringMap(l.Profile["web3"])
			web3["public_address"] = value
			l.Profile["web3"] = web3
			continue
		}
		l.Profile[path] = value
	}
}

// Preview is the canonical view of the document without marking it migrated.
func (l *LegacyUser) Preview(docID string) *UserInfo {
	user := l.ToUserInfo(docID)
	user.Migrated = false
	return user
}

// ToUserInfo maps the legacy document stored under docID onto the canonical
// shape. IsArtist is always false on the result; the legacy artist flag is
// carried by IsCreator. Keys of a nested profile map take precedence over the
// flat fields they correspond to.
func (l *LegacyUser) ToUserInfo(docID string) *UserInfo {
	uid := l.UID
	if uid == "" {
		uid = docID
	}

	user := &UserInfo{
		UID:       uid,
		FcmToken:  l.FcmToken,
		IsCreator: l.IsArtist,
		IsArtist:  false,
		Migrated:  true,
		Profile: Profile{
			Image:          l.PhotoURL,
			Cover:          l.CoverPhotoURL,
			Name:           l.Name,
			Username:       l.Username,
			Bio:            l.Bio,
			TotalFollowing: l.UserFollowingCount,
			TotalFollowers: l.UserFollowersCount,
			EmailAddress:   l.Email,
		},
		Location: Location{
			City:      l.City,
			State:     l.State,
			Country:   l.Country,
			Latitude:  l.Lat,
			Longitude: l.Lng,
			Geohash:   l.Geohash,
		},
		Metrics: Metrics{
			MusicIosApp: IosAppMetrics{
				Version: l.AppVersion,
			},
			LastLogin: l.LastSignIn,
		},
	}
	if l.Profile != nil {
		overlayProfile(&user.Profile, l.Profile)
	}
	return user
}
