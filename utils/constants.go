// File: utils/constants.go
package utils

import "time"

// QuoteSessionPrefix is the prefix used for Redis quote-session cache keys.
const QuoteSessionPrefix = "quote:"

// QuoteSessionTTL is the time-to-live for cached quote sessions.
const QuoteSessionTTL = 10 * time.Minute
