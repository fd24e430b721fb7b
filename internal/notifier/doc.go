// Package notifier delivers vacancy alerts.
//
// EmailNotifier sends one plain-text message over implicit-TLS SMTP with PLAIN auth.
// DryRunNotifier prints the message instead, which is what --dry-run uses.
package notifier
