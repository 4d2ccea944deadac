package rpc

import "maps"

// Dedicated profile keys of the metadata bag.
const (
	KeyName    = "name"
	KeyRole    = "role"
	KeyPhone   = "phone"
	KeyBio     = "bio"
	KeyAddress = "address"
	KeyAvatar  = "avatar"
)

// ProfileFromMap splits a metadata bag into dedicated fields and Extra.
// Dedicated keys holding non-string values go to Extra unchanged.
func ProfileFromMap(m map[string]any) Profile {
	var p Profile
	for k, v := range m {
		s, isString := v.(string)
		var dst **string
		switch k {
		case KeyName:
			dst = &p.Name
		case KeyRole:
			dst = &p.Role
		case KeyPhone:
			dst = &p.Phone
		case KeyBio:
			dst = &p.Bio
		case KeyAddress:
			dst = &p.Address
		case KeyAvatar:
			dst = &p.Avatar
		}
		if dst != nil && isString {
			*dst = &s
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = v
	}
	return p
}

// Map flattens the profile back into a metadata bag. Unset fields are
// omitted; fields set to "" are kept.
func (p Profile) Map() map[string]any {
	m := make(map[string]any, len(p.Extra)+6)
	maps.Copy(m, p.Extra)
	for k, v := range map[string]*string{
		KeyName:    p.Name,
		KeyRole:    p.Role,
		KeyPhone:   p.Phone,
		KeyBio:     p.Bio,
		KeyAddress: p.Address,
		KeyAvatar:  p.Avatar,
	} {
		if v != nil {
			m[k] = *v
		}
	}
	return m
}

// Merge overlays the set fields of patch onto p. Extra entries are
// merged key by key.
func (p Profile) Merge(patch Profile) Profile {
	m := p.Map()
	maps.Copy(m, patch.Map())
	return ProfileFromMap(m)
}

// Str returns a pointer to s for building profiles by hand.
func Str(s string) *string {
	return &s
}
