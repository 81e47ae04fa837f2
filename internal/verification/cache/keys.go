package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
)

// ContentHash fingerprints the identity-bearing parts of parsed content.
func ContentHash(content models.ParsedContent) string {
	h := sha256.New()
	h.Write([]byte(content.ID))
	h.Write([]byte{0})
	h.Write([]byte(content.ExtractedText))
	return hex.EncodeToString(h.Sum(nil))
}

// Key derives the deterministic cache key for a request fingerprint. Option
// fields are serialized as sorted key=value pairs so the key is independent
// of how the caller assembled the options.
func Key(contentHash string, domain models.Domain, opts models.Options) string {
	pairs := make([]string, 0, 2)
	if opts.ConfidenceThreshold != nil {
		pairs = append(pairs, fmt.Sprintf("confidence_threshold=%d", *opts.ConfidenceThreshold))
	}
	if opts.ModuleTimeout > 0 {
		pairs = append(pairs, fmt.Sprintf("module_timeout=%d", opts.ModuleTimeout.Milliseconds()))
	}
	sort.Strings(pairs)

	h := sha256.New()
	h.Write([]byte(contentHash))
	h.Write([]byte{0})
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(pairs, "&")))
	return "verification:result:" + hex.EncodeToString(h.Sum(nil))
}
