package service

import "time"

// nowFunc lets tests pin "now" for window and watermark calculations.
type nowFunc func() time.Time

func defaultNow() time.Time { return time.Now() }
