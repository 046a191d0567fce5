// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

// UserProfile mirrors the authenticated user. Created on sign-in, cleared
// on sign-out. All fields except ID are optional.
type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Email       string `json:"email,omitempty"`
}

// IsSignedIn reports whether a user identity is present.
func (u *UserProfile) IsSignedIn() bool {
	return u != nil && u.ID != ""
}

// MergeFrom fills in fields the profile is missing from another source.
//
// Identity arrives from two collaborators: the auth provider and whatever
// the store already holds. The store's values take precedence; auth values
// only fill gaps. This is the single place the precedence rule lives -
// callers must not re-merge at individual call sites, or the UI flickers
// between the two sources.
func (u UserProfile) MergeFrom(auth UserProfile) UserProfile {
	merged := u
	if merged.ID == "" {
		merged.ID = auth.ID
	}
	if merged.Username == "" {
		merged.Username = auth.Username
	}
	if merged.DisplayName == "" {
		merged.DisplayName = auth.DisplayName
	}
	if merged.AvatarURL == "" {
		merged.AvatarURL = auth.AvatarURL
	}
	if merged.Email == "" {
		merged.Email = auth.Email
	}
	return merged
}
