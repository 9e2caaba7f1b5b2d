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
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/novachat/nova/ratelimit"
)

// routeFor classifies a raw method+endpoint pair into the generic template
// and major parameters the ratelimit package keys buckets on. It is the
// typed counterpart of the flat bucket-key string the SDK used to build
// inline: the template never contains a concrete ID (so it is shared by
// every guild/channel/webhook that hits the same route), while the actual
// IDs travel separately in MajorParams.
func routeFor(method, endpoint string) ratelimit.FormattedRoute {
	if strings.HasPrefix(endpoint, "/interactions/") && strings.HasSuffix(endpoint, "/callback") {
		return ratelimit.FormattedRoute{
			Base: ratelimit.BaseRoute{Method: method, Template: "/interactions/:id/:token/callback"},
		}
	}

	var major ratelimit.MajorParams
	var b strings.Builder
	b.Grow(len(endpoint) + 8)

	segments := strings.Split(endpoint, "/")
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('/')
		}
		if !reSnowflake.MatchString(seg) {
			b.WriteString(seg)
			continue
		}
		switch {
		case i > 0 && segments[i-1] == "guilds" && major.GuildID == "":
			major.GuildID = seg
		case i > 0 && segments[i-1] == "channels" && major.ChannelID == "":
			major.ChannelID = seg
		case i > 0 && segments[i-1] == "webhooks" && major.WebhookID == "":
			major.WebhookID = seg
		}
		b.WriteString(":id")
	}

	template := reReactions.ReplaceAllString(b.String(), "/reactions/:reaction")
	template = reWebhooksToken.ReplaceAllString(template, "/webhooks/:id/:token")

	if method == "DELETE" && strings.HasPrefix(endpoint, "/channels/") && strings.Contains(endpoint, "/messages/") {
		if isOldMessageDelete(endpoint) {
			template += "/oldmessage"
		}
	}

	return ratelimit.FormattedRoute{
		Base:  ratelimit.BaseRoute{Method: method, Template: template},
		Major: major,
	}
}

// isOldMessageDelete reports whether endpoint deletes a message older than
// 14 days, which Discord buckets separately from recent deletes.
func isOldMessageDelete(endpoint string) bool {
	lastSlash := strings.LastIndex(endpoint, "/")
	if lastSlash == -1 || lastSlash == len(endpoint)-1 {
		return false
	}
	id, err := strconv.ParseUint(endpoint[lastSlash+1:], 10, 64)
	if err != nil {
		return false
	}
	age := time.Now().UnixMilli() - Snowflake(id).Timestamp().UnixMilli()
	return age > oldMessageCutoffMS
}

var (
	reSnowflake     = regexp.MustCompile(`^\d{17,19}$`)
	reReactions     = regexp.MustCompile(`/reactions/.*`)
	reWebhooksToken = regexp.MustCompile(`/webhooks/:id/[^/?]+`)
)

const oldMessageCutoffMS = 14 * 24 * 60 * 60 * 1000 // 14 days in milliseconds
