package utils

import (
	"math/rand"
	"regexp"
	"strings"
)

// Chat profanity filter. Covers English and Filipino/Tagalog terms plus the
// usual asterisk-masked variants people use to dodge naive filters.

var profanityWords = []string{
	// English
	"fuck", "shit", "bitch", "ass", "damn", "hell", "crap", "piss", "dick", "cock",
	"pussy", "whore", "slut", "bastard", "faggot", "nigger", "retard", "idiot",
	"stupid", "dumb", "moron", "fucking", "shitty", "bullshit", "asshole",

	// Filipino/Tagalog
	"putang", "putangina", "tangina", "gago", "bobo", "tanga", "ulol", "tarantado",
	"hayop", "walanghiya", "bastos", "kupal", "pakyu", "pakyaw", "pakshet",
	"leche", "lintik", "suso", "titi", "pepe", "kiki", "puke", "burat",
	"tamod", "tamodan", "jakol", "jakulin", "kantot", "kantutan", "libog",
	"malibog", "manyak",

	// Masked variants
	"f*ck", "f**k", "f***", "sh*t", "s**t", "b*tch", "b**ch", "a**", "a*s",
	"d*mn", "h*ll", "cr*p", "p*ss", "d*ck", "c*ck", "p*ssy", "wh*re",
	"sl*t", "b*stard", "f*ggot", "n*gger", "r*tard", "a*shole",
	"p*tang", "p*tangina", "t*ngina", "g*go", "b*bo", "t*nga", "u*ol",
	"t*rantado", "h*yop", "w*langhiya", "b*stos", "k*pal", "p*kyu",
	"p*kyaw", "p*kshet", "l*che", "l*ntik", "s*so", "t*ti", "p*pe",
	"k*ki", "p*ke", "b*rat", "t*mod", "t*modan", "j*kol", "j*kulin",
	"k*ntot", "k*ntutan", "l*bog", "m*libog", "m*nyak",
}

var wordSplit = regexp.MustCompile(`[\s\W]+`)

// ContainsProfanity reports whether the message contains a blocked word,
// either as a substring or as a standalone token.
func ContainsProfanity(message string) bool {
	if message == "" {
		return false
	}

	lower := strings.ToLower(message)
	for _, word := range profanityWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}

	for _, token := range wordSplit.Split(lower, -1) {
		for _, word := range profanityWords {
			if token == word {
				return true
			}
		}
	}
	return false
}

// FilterProfanity replaces blocked words with asterisks of equal length.
func FilterProfanity(message string) string {
	if message == "" {
		return message
	}

	filtered := message
	for _, word := range profanityWords {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		filtered = re.ReplaceAllString(filtered, strings.Repeat("*", len(word)))
	}
	return filtered
}

var cleanMessages = []string{
	"Let's keep the conversation friendly!",
	"Please use appropriate language.",
	"Let's chat respectfully!",
	"Keep it clean, please!",
	"Let's maintain a positive vibe!",
}

// CleanAlternative returns a friendly substitute line for blocked content.
func CleanAlternative() string {
	return cleanMessages[rand.Intn(len(cleanMessages))]
}
