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

const (
	LIB_NAME    = "nova"
	LIB_VERSION = "0.14.5"
)
