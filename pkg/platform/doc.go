// SPDX-License-Identifier: MPL-2.0

// Package platform holds operating system names and file naming rules that
// differ between platforms.
package platform
