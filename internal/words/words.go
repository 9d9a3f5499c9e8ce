// Package words supplies the card decks boards are dealt from.
package words

import "slices"

var builtin = []string{
	"ENCRYPT", "FIREWALL", "PROTOCOL", "TERMINAL", "BINARY", "CIPHER",
	"EXPLOIT", "MALWARE", "VIRUS", "BREACH", "HACK", "SENTINEL",
	"SERVER", "PASSWORD", "DATABASE", "ROUTER", "NETWORK", "SECURITY",
	"ACCESS", "DECRYPT", "PROXY", "TROJAN", "PHISHING", "KEYLOGGER",
	"BACKDOOR", "BUFFER", "COOKIE", "DOMAIN", "WORM", "SPYWARE",
	"RANSOMWARE", "BOTNET", "BIOMETRIC", "AUTHENTICATION", "INJECTION", "TOKEN",
}

func BuiltinDeck() []string {
	return slices.Clone(builtin)
}
