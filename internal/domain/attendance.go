package domain

import "time"

type CheckInMethod string

const (
	CheckInQR     CheckInMethod = "qr"
	CheckInNFC    CheckInMethod = "nfc"
	CheckInManual CheckInMethod = "manual"
)

func (m CheckInMethod) Valid() bool {
	return m == CheckInQR || m == CheckInNFC || m == CheckInManual
}

type Attendance struct {
	ID          string         `json:"id"`
	TicketID    string         `json:"ticketId"`
	EventID     string         `json:"eventId"`
	CheckedInBy *string        `json:"checkedInBy"`
	CheckedInAt time.Time      `json:"checkedInAt"`
	Method      CheckInMethod  `json:"method"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type AttendanceFilter struct {
	EventID  string
	TicketID string
}

type AttendanceStats struct {
	EventID            string                `json:"eventId"`
	TotalCheckIns      int                   `json:"totalCheckIns"`
	ByMethod           map[CheckInMethod]int `json:"byMethod"`
	FirstCheckInAt     *time.Time            `json:"firstCheckInAt"`
	LastCheckInAt      *time.Time            `json:"lastCheckInAt"`
	AverageCheckInTime *string               `json:"averageCheckInTime"`
}

// ComputeAttendanceStats aggregates records; the average check-in time is the
// mean time of day (UTC) formatted as HH:MM.
func ComputeAttendanceStats(eventID string, records []Attendance) AttendanceStats {
	stats := AttendanceStats{
		EventID:       eventID,
		TotalCheckIns: len(records),
		ByMethod:      make(map[CheckInMethod]int),
	}
	if len(records) == 0 {
		return stats
	}

	var seconds int64
	for i := range records {
		at := records[i].CheckedInAt.UTC()
		stats.ByMethod[records[i].Method]++
		if stats.FirstCheckInAt == nil || at.Before(*stats.FirstCheckInAt) {
			stats.FirstCheckInAt = &at
		}
		if stats.LastCheckInAt == nil || at.After(*stats.LastCheckInAt) {
			stats.LastCheckInAt = &at
		}
		seconds += int64(at.Hour()*3600 + at.Minute()*60 + at.Second())
	}

	avg := time.Duration(seconds/int64(len(records))) * time.Second
	formatted := time.Time{}.Add(avg).Format("15:04")
	stats.AverageCheckInTime = &formatted

	return stats
}
