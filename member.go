/************************************************************************************
 *
 * nova, a lightweight client SDK for chat-platform REST & Gateway APIs
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 The Nova Authors
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

package nova

import "time"

// MemberFlags represents flags of a guild member.
//
// Reference: https://discord.com/developers/docs/resources/guild#guild-member-object-guild-member-flags
type MemberFlags int

const (
	// Member has left and rejoined the guild
	//  - Editable: false
	MemberFlagDidRejoin MemberFlags = 1 << iota

	// Member has completed onboarding
	//  - Editable: false
	MemberFlagCompletedOnboarding

	// Member is exempt from guild verification requirements
	//  - Editable: true
	MemberFlagBypassesVerification

	// Member has started onboarding
	//  - Editable: false
	MemberFlagStartedOnboarding

	// Member is a guest and can only access the voice channel they were invited to
	//  - Editable: false
	MemberFlagIsGuest

	// Member has started Server Guide new member actions
	//  - Editable: false
	MemberFlagStartedHomeActions

	// Member has completed Server Guide new member actions
	//  - Editable: false
	MemberFlagCompletedHomeActions

	// Member's username, display name, or nickname is blocked by AutoMod
	//  - Editable: false
	MemberFlagQuarantinedUsername
	_

	// Member has dismissed the DM settings upsell
	//  - Editable: false
	MemberFlagDMSettingsUpsellAcknowledged

	// Member's guild tag is blocked by AutoMod
	//  - Editable: false
	MemberFlagQuarantinedGuildTag
)

// Has returns true if all provided flags are set.
func (f MemberFlags) Has(flags ...MemberFlags) bool {
	return BitFieldHas(f, flags...)
}

// Member is a discord GuildMember
type Member struct {
	EntityBase // Embedded client reference for action methods

	// ID is the user's unique Discord snowflake ID.
	ID Snowflake `json:"id"`

	// GuildID is the member's guild id.
	GuildID Snowflake `json:"guild_id"`

	// User is the member's user object.
	User User `json:"user"`

	// Nickname is the user's nickname.
	Nickname string `json:"nick"`

	// Avatar is the member's avatar hash.
	// Note:
	//  - this is difrent from the user avatar, this one is spesific to this guild
	//
	// Optional:
	//  - May be empty string if no avatar.
	Avatar string `json:"avatar"`

	// Banner is the member's banner hash.
	// Note:
	//  - this is difrent from the user banner, this one is spesific to this guild
	//
	// Optional:
	//  - May be empty string if no banner.
	Banner string `json:"banner"`

	// RoleIDs is the ids of roles this member have
	RoleIDs []Snowflake `json:"roles,omitempty"`

	// JoinedAt when the user joined the guild
	//
	// Optional:
	//  - Nil in VoiceStateUpdate event if the member was invited as a guest.
	JoinedAt *time.Time `json:"joined_at"`

	// PremiumSince when the user started boosting the guild
	//
	// Optional:
	//  - Nil if member is not a server booster
	PremiumSince *time.Time `json:"premium_since,omitempty"`

	// Deaf is whether the user is deafened in voice channels
	Deaf bool `json:"deaf,omitempty"`

	// Mute is whether the user is muted in voice channels
	Mute bool `json:"mute,omitempty"`

	// Flags guild member flags represented as a bit set, defaults to 0
	Flags MemberFlags `json:"flags"`

	// Pending is whether the user has not yet passed the guild's Membership Screening requirements
	Pending bool `json:"pending"`

	// CommunicationDisabledUntil is when the user's timeout will expire and the user will be able to communicate in the guild again, null or a time in the past if the user is not timed out
	CommunicationDisabledUntil *time.Time `json:"communication_disabled_until"`

	// AvatarDecorationData is the data for the member's guild avatar decoration
	AvatarDecorationData *AvatarDecorationData `json:"avatar_decoration_data"`
}

// Mention returns a Discord mention string for the user.
//
// Example output: "<@123456789012345678>"
func (m *Member) Mention() string {
	return "<@" + m.ID.String() + ">"
}

// CreatedAt returns the time when this member account is created.
func (m *Member) CreatedAt() time.Time {
	return m.ID.Timestamp()
}

// DisplayName returns the member's nickname if set,
// otherwise it returns their global display name if set,
// otherwise it falls back to their username.
//
// - Nickname: a guild-specific name set by the user or server mods.
// - Globalname: the name shown across Discord (can differ from username).
// - Username: the original account username.
//
// Example usage:
//
//	name := member.DisplayName()
func (m *Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.User.DisplayName()
}

// AvatarURL returns the URL to the members's avatar image.
//
// If the member has a custom avatar set, it returns the URL to that avatar.
// Otherwise it returns their global user avatar URL,
// By default, it uses GIF format if the avatar is animated, otherwise PNG.
//
// Example usage:
//
//	url := member.AvatarURL()
func (m *Member) AvatarURL() string {
	if m.Avatar != "" {
		return GuildMemberAvatarURL(m.GuildID, m.ID, m.Avatar, ImageFormatDefault, ImageSizeDefault)
	}
	return m.User.AvatarURL()
}

// AvatarURLWith returns the URL to the member's avatar image,
// allowing explicit specification of image format and size.
//
// If the user has a custom avatar set, it returns the URL to that avatar.
// Otherwise it returns their global user avatar URL using the provided format and size.
//
// Example usage:
//
//	url := member.AvatarURLWith(ImageFormatWebP, ImageSize512)
func (m *Member) AvatarURLWith(format ImageFormat, size ImageSize) string {
	if m.Avatar != "" {
		return GuildMemberAvatarURL(m.GuildID, m.ID, m.Avatar, format, size)
	}
	return m.User.AvatarURLWith(format, size)
}

// BannerURL returns the URL to the member's banner image.
//
// If the member has a custom banner set, it returns the URL to that banner.
// Otherwise it returns their global user banner URL,
// By default, it uses GIF format if the banner is animated, otherwise PNG.
//
// Example usage:
//
//	url := member.BannerURL()
func (m *Member) BannerURL() string {
	if m.Banner != "" {
		return GuildMemberBannerURL(m.GuildID, m.ID, m.Banner, ImageFormatDefault, ImageSizeDefault)
	}
	return m.User.BannerURL()
}

// BannerURLWith returns the URL to the member's banner image,
// allowing explicit specification of image format and size.
//
// If the member has a custom banner set, it returns the URL to that banner.
// Otherwise it returns their global user banner URL using the provided format and size.
//
// Example usage:
//
//	url := member.BannerURLWith(ImageFormatWebP, ImageSize512)
func (m *Member) BannerURLWith(format ImageFormat, size ImageSize) string {
	if m.Banner != "" {
		return GuildMemberBannerURL(m.GuildID, m.ID, m.Banner, format, size)
	}
	return m.User.BannerURLWith(format, size)
}

// AvatarDecorationURL returns the URL to the member's avatar decoration image.
//
// If the member has no avatar decoration, it returns an empty string.
//
// Example usage:
//
//	url := member.AvatarDecorationURL()
func (m *Member) AvatarDecorationURL() string {
	if m.AvatarDecorationData != nil {
		return AvatarDecorationURL(m.AvatarDecorationData.Asset, ImageSizeDefault)
	}
	return ""
}

// AvatarDecorationURLWith returns the URL to the member's avatar decoration image,
// allowing explicit specification of image size.
//
// If the member has no avatar decoration, it returns an empty string.
//
// Example usage:
//
//	url := member.AvatarDecorationURLWith(ImageSize512)
func (m *Member) AvatarDecorationURLWith(size ImageSize) string {
	if m.AvatarDecorationData != nil {
		return AvatarDecorationURL(m.AvatarDecorationData.Asset, size)
	}
	return ""
}

// ResolvedMember represents a member with additional permissions field, typically included in an interaction object.
//
// Info:
//   - It embeds the Member struct and adds a Permissions field to describe the
//     member's permissions in the context of the interaction.
type ResolvedMember struct {
	Member
	// Permissions is the total permissions of the member in the channel, including overwrites.
	Permissions Permissions `json:"permissions,omitempty"`
}

/*****************************
 *   Member Action Methods   *
 *****************************/

// Kick removes this member from the guild.
// Requires KICK_MEMBERS permission.
//
// Usage example:
//
//	err := member.Kick("Rule violation")
func (m *Member) Kick(reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.KickMember(m.GuildID, m.User.ID, reason)
}

// Ban bans this member from the guild.
// Requires BAN_MEMBERS permission.
//
// Usage example:
//
//	err := member.Ban(BanOptions{DeleteMessageSeconds: 86400}, "Severe violation")
func (m *Member) Ban(opts BanOptions, reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.BanMember(m.GuildID, m.User.ID, opts, reason)
}

// Edit modifies this member's attributes.
// Returns the updated member.
//
// Usage example:
//
//	nick := "New Nickname"
//	updated, err := member.Edit(MemberEditOptions{Nick: &nick}, "Nickname change")
func (m *Member) Edit(opts MemberEditOptions, reason string) (*Member, error) {
	if m.client == nil {
		return nil, ErrNoClient
	}
	updated, err := m.client.EditMember(m.GuildID, m.User.ID, opts, reason)
	if err != nil {
		return nil, err
	}
	updated.SetClient(m.client)
	return &updated, nil
}

// SetNickname sets this member's nickname.
// Pass an empty string to remove the nickname.
//
// Usage example:
//
//	err := member.SetNickname("Cool Guy", "Requested nickname change")
func (m *Member) SetNickname(nickname string, reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	_, err := m.client.EditMember(m.GuildID, m.User.ID, MemberEditOptions{Nick: &nickname}, reason)
	return err
}

// AddRole adds a role to this member.
// Requires MANAGE_ROLES permission.
//
// Usage example:
//
//	err := member.AddRole(roleID, "Earned the role")
func (m *Member) AddRole(roleID Snowflake, reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.AddMemberRole(m.GuildID, m.User.ID, roleID, reason)
}

// RemoveRole removes a role from this member.
// Requires MANAGE_ROLES permission.
//
// Usage example:
//
//	err := member.RemoveRole(roleID, "Role revoked")
func (m *Member) RemoveRole(roleID Snowflake, reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.RemoveMemberRole(m.GuildID, m.User.ID, roleID, reason)
}

// Timeout applies a timeout to this member for the specified duration.
// Requires MODERATE_MEMBERS permission. Maximum duration is 28 days.
//
// Usage example:
//
//	err := member.Timeout(10*time.Minute, "Spam")
func (m *Member) Timeout(duration time.Duration, reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.TimeoutMember(m.GuildID, m.User.ID, duration, reason)
}

// RemoveTimeout removes the timeout from this member.
// Requires MODERATE_MEMBERS permission.
//
// Usage example:
//
//	err := member.RemoveTimeout("Timeout lifted")
func (m *Member) RemoveTimeout(reason string) error {
	if m.client == nil {
		return ErrNoClient
	}
	return m.client.RemoveTimeout(m.GuildID, m.User.ID, reason)
}

// Send sends a direct message to this member.
// Returns the sent message.
//
// Usage example:
//
//	msg, err := member.Send("Hello!")
func (m *Member) Send(content string) (*Message, error) {
	return m.SendWith(MessageCreateOptions{Content: content})
}

// SendWith sends a direct message to this member with full options.
// Returns the sent message.
//
// Usage example:
//
//	msg, err := member.SendWith(MessageCreateOptions{
//	    Content: "Hello!",
//	    Embeds: []Embed{embed},
//	})
func (m *Member) SendWith(opts MessageCreateOptions) (*Message, error) {
	if m.client == nil {
		return nil, ErrNoClient
	}
	dm, err := m.client.CreateDM(m.User.ID)
	if err != nil {
		return nil, err
	}
	msg, err := m.client.SendMessage(dm.ID, opts)
	if err != nil {
		return nil, err
	}
	msg.SetClient(m.client)
	return &msg, nil
}

// Guild returns the cached guild this member belongs to.
//
// Usage example:
//
//	if g, ok := member.Guild(); ok {
//	    fmt.Println("Guild:", g.Name)
//	}
func (m *Member) Guild() (Guild, bool) {
	if m.client == nil {
		return Guild{}, false
	}
	return m.client.CacheManager.GetGuild(m.GuildID)
}

// HasRole checks if this member has a specific role.
//
// Usage example:
//
//	if member.HasRole(moderatorRoleID) {
//	    // Member is a moderator
//	}
func (m *Member) HasRole(roleID Snowflake) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// IsTimedOut returns true if this member is currently timed out.
//
// Usage example:
//
//	if member.IsTimedOut() {
//	    // Member is timed out
//	}
func (m *Member) IsTimedOut() bool {
	return m.CommunicationDisabledUntil != nil && m.CommunicationDisabledUntil.After(time.Now())
}
