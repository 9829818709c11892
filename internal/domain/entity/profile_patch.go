package entity

import (
	"github.com/spf13/cast"
)

// ProfilePatch is a partial profile update. Nil fields are left untouched;
// Links replaces the whole links object.
type ProfilePatch struct {
	Name          *string
	Username      *string
	Bio           *string
	Image         *string
	Cover         *string
	Links         *Links
	PublicAddress *string
}

func (p ProfilePatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ApplyTo returns profile with the patch applied.
func (p ProfilePatch) ApplyTo(profile Profile) Profile {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Username != nil {
		profile.Username = *p.Username
	}
	if p.Bio != nil {
		profile.Bio = *p.Bio
	}
	if p.Image != nil {
		profile.Image = *p.Image
	}
	if p.Cover != nil {
		profile.Cover = *p.Cover
	}
	if p.Links != nil {
		profile.Links = *p.Links
	}
	if p.PublicAddress != nil {
		profile.Web3.PublicAddress = *p.PublicAddress
	}
	return profile
}

// Fields returns the set fields keyed by their dotted path below "profile",
// in the stored representation.
func (p ProfilePatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Username != nil {
		fields["username"] = *p.Username
	}
	if p.Bio != nil {
		fields["bio"] = *p.Bio
	}
	if p.Image != nil {
		fields["image"] = *p.Image
	}
	if p.Cover != nil {
		fields["cover"] = *p.Cover
	}
	if p.Links != nil {
		fields["links"] = p.Links.toMap()
	}
	if p.PublicAddress != nil {
		fields["web3.public_address"] = *p.PublicAddress
	}
	return fields
}

func (l Links) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"website":   l.Website,
		"spotify":   l.Spotify,
		"itunes":    l.Itunes,
		"instagram": l.Instagram,
		"twitter":   l.Twitter,
	}
	if l.Tiktok != "" {
		m["tiktok"] = l.Tiktok
	}
	if l.Youtube != "" {
		m["youtube"] = l.Youtube
	}
	return m
}

// overlayProfile copies the keys present in raw, a stored profile map, onto
// profile. Keys that are absent leave the existing value in place.
func overlayProfile(profile *Profile, raw map[string]interface{}) {
	setString := func(key string, dst *string) {
		if v, ok := raw[key]; ok {
			*dst = cast.ToString(v)
		}
	}
	setString("name", &profile.Name)
	setString("username", &profile.Username)
	setString("bio", &profile.Bio)
	setString("image", &profile.Image)
	setString("cover", &profile.Cover)
	setString("email_address", &profile.EmailAddress)

	if v, ok := raw["total_followers"]; ok {
		profile.TotalFollowers = cast.ToInt64(v)
	}
	if v, ok := raw["total_following"]; ok {
		profile.TotalFollowing = cast.ToInt64(v)
	}

	if v, ok := raw["links"]; ok {
		links := cast.ToStringMap(v)
		profile.Links = Links{
			Website:   cast.ToString(links["website"]),
			Spotify:   cast.ToString(links["spotify"]),
			Itunes:    cast.ToString(links["itunes"]),
			Instagram: cast.ToString(links["instagram"]),
			Twitter:   cast.ToString(links["twitter"]),
			Tiktok:    cast.ToString(links["tiktok"]),
			Youtube:   cast.ToString(links["youtube"]),
		}
	}
	if v, ok := raw["web3"]; ok {
		if addr, ok := cast.ToStringMap(v)["public_address"]; ok {
			profile.Web3.PublicAddress = cast.ToString(addr)
		}
	}
}
