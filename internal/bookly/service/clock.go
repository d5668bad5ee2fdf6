package service

import "time"

// clock returns now(), or the wall clock when now is nil.
func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
