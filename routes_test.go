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

import (
	"strconv"
	"testing"
	"time"
)

func TestRouteFor_InteractionCallback(t *testing.T) {
	r := routeFor("POST", "/interactions/987654321098765432/abcdef/callback")
	if r.Base.Template != "/interactions/:id/:token/callback" {
		t.Fatalf("unexpected template: %q", r.Base.Template)
	}
	if r.Major.GuildID != "" || r.Major.ChannelID != "" || r.Major.WebhookID != "" {
		t.Fatalf("interaction callbacks carry no major params, got %+v", r.Major)
	}
}

func TestRouteFor_WebhookToken(t *testing.T) {
	r := routeFor("POST", "/webhooks/123456789012345678/abcdef1234567890")
	if r.Base.Template != "/webhooks/:id/:token" {
		t.Fatalf("unexpected template: %q", r.Base.Template)
	}
	if r.Major.WebhookID != "123456789012345678" {
		t.Fatalf("expected webhook major param, got %+v", r.Major)
	}
}

func TestRouteFor_Reaction(t *testing.T) {
	r := routeFor("PUT", "/channels/123456789012345678/messages/234567890123456789/reactions/%F0%9F%91%8D/@me")
	if r.Base.Template != "/channels/:id/messages/:id/reactions/:reaction" {
		t.Fatalf("unexpected template: %q", r.Base.Template)
	}
	if r.Major.ChannelID != "123456789012345678" {
		t.Fatalf("expected channel major param, got %+v", r.Major)
	}
}

func TestRouteFor_ChannelMajorParam(t *testing.T) {
	r := routeFor("GET", "/channels/123456789012345678/messages/234567890123456789")
	if r.Base.Template != "/channels/:id/messages/:id" {
		t.Fatalf("unexpected template: %q", r.Base.Template)
	}
	if r.Major.ChannelID != "123456789012345678" {
		t.Fatalf("expected channel major param, got %+v", r.Major)
	}
	if r.Major.GuildID != "" {
		t.Fatalf("did not expect a guild major param, got %+v", r.Major)
	}
}

func TestRouteFor_GuildMajorParam(t *testing.T) {
	r := routeFor("PATCH", "/guilds/987654321098765432/members/123456789012345678")
	if r.Base.Template != "/guilds/:id/members/:id" {
		t.Fatalf("unexpected template: %q", r.Base.Template)
	}
	if r.Major.GuildID != "987654321098765432" {
		t.Fatalf("expected guild major param, got %+v", r.Major)
	}
}

func TestRouteFor_NoMajorParam(t *testing.T) {
	for _, endpoint := range []string{"/gateway/bot", "/users/@me"} {
		r := routeFor("GET", endpoint)
		if r.Base.Template != endpoint {
			t.Fatalf("expected template %q unchanged, got %q", endpoint, r.Base.Template)
		}
		if r.Major.GuildID != "" || r.Major.ChannelID != "" || r.Major.WebhookID != "" {
			t.Fatalf("expected no major params for %q, got %+v", endpoint, r.Major)
		}
	}
}

func TestRouteFor_OldMessageDeleteBucketsSeparately(t *testing.T) {
	// A snowflake more than 14 days old at the time this test was written;
	// the exact cutoff instant is irrelevant, only that it predates "now"
	// by well over 14 days. The recent ID is built from the current time so
	// that it stays within the 14-day window whenever the test runs.
	oldMessageID := "1363358614089371648"
	newMessageID := strconv.FormatUint(uint64(time.Now().UnixMilli()-discordEpoch)<<22, 10)

	oldRoute := routeFor("DELETE", "/channels/123456789012345678/messages/"+oldMessageID)
	newRoute := routeFor("DELETE", "/channels/123456789012345678/messages/"+newMessageID)

	if oldRoute.Base.Template == newRoute.Base.Template {
		t.Fatalf("expected old and recent message deletes to land in different buckets, both got %q", oldRoute.Base.Template)
	}
	if oldRoute.Base.Template != "/channels/:id/messages/:id/oldmessage" {
		t.Fatalf("unexpected old-message template: %q", oldRoute.Base.Template)
	}
}
