package domain

import "time"

// User is a member profile. ExternalIdentity and WalletAddress are optional
// and, when set, unique across all users.
type User struct {
	ID               string    `json:"userId"`
	ExternalIdentity string    `json:"externalIdentity,omitempty"`
	DisplayName      string    `json:"displayName" validate:"required"`
	Bio              string    `json:"bio"         validate:"required"`
	Skills           []string  `json:"skills"`
	Values           []string  `json:"values"`
	Goals            []string  `json:"goals"`
	WalletAddress    string    `json:"walletAddress,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserPatch carries the fields an update may change. Nil means "keep".
type UserPatch struct {
	ExternalIdentity *string   `json:"externalIdentity,omitempty"`
	DisplayName      *string   `json:"displayName,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Skills           *[]string `json:"skills,omitempty"`
	Values           *[]string `json:"values,omitempty"`
	Goals            *[]string `json:"goals,omitempty"`
	WalletAddress    *string   `json:"walletAddress,omitempty"`
	AvatarURL        *string   `json:"avatarUrl,omitempty"`
}

// Apply merges p onto u field by field.
func (p UserPatch) Apply(u *User) {
	setString(&u.ExternalIdentity, p.ExternalIdentity)
	setString(&u.DisplayName, p.DisplayName)
	setString(&u.Bio, p.Bio)
	setList(&u.Skills, p.Skills)
	setList(&u.Values, p.Values)
	setList(&u.Goals, p.Goals)
	setString(&u.WalletAddress, p.WalletAddress)
	setString(&u.AvatarURL, p.AvatarURL)
}

// IdentityRecord is the profile asserted by the external social identity
// provider at sign-in.
type IdentityRecord struct {
	ID          string `json:"id"          validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = append([]string(nil), (*v)...)
	}
}
