package schedule

import (
	"fmt"
	"sort"
	"time"

	"postcraft/internal/core"

	"github.com/google/uuid"
)

// Platform-specific optimal posting hours (hours from midnight). Twitter
// supports several slots per day, Instagram performs best in the afternoon,
// LinkedIn during business hours.
var optimalHours = map[core.Platform][]int{
	core.PlatformTwitter:   {9, 12, 15, 18},
	core.PlatformInstagram: {11, 14, 17},
	core.PlatformLinkedIn:  {8, 12, 17},
}

// OptimalHours returns the recommended posting hours for a platform, or nil
// for a platform outside the supported set. The returned slice is a copy.
func OptimalHours(platform core.Platform) []int {
	hours, ok := optimalHours[platform]
	if !ok {
		return nil
	}
	out := make([]int, len(hours))
	copy(out, hours)
	return out
}

// Scheduler assigns posting times to generated posts. It holds no mutable
// state beyond the timezone label attached to every scheduled post.
type Scheduler struct {
	timezone string
}

// NewScheduler creates a scheduler that labels posts with the given timezone.
// An empty timezone defaults to UTC.
func NewScheduler(timezone string) *Scheduler {
	if timezone == "" {
		timezone = "UTC"
	}
	return &Scheduler{timezone: timezone}
}

// Timezone returns the timezone label this scheduler stamps onto posts.
func (s *Scheduler) Timezone() string {
	return s.timezone
}

// platformCursor tracks scheduling progress for one platform: the day being
// filled and the next slot within that day's optimal hours.
type platformCursor struct {
	date time.Time
	slot int
}

// CreateSchedule assigns each post a timestamp, walking each platform's
// optimal hours in order and advancing to the next day once a platform's
// slots for the current day are used up. Cursors are tracked per platform, so
// interleaving platforms in the input does not change any platform's cadence.
// Posts whose platform is not in the supported set are skipped.
//
// startDate is an RFC 3339 timestamp; when empty, scheduling starts now.
func (s *Scheduler) CreateSchedule(posts []core.SocialMediaPost, startDate string) ([]core.ScheduledPost, error) {
	start, err := parseStartDate(startDate)
	if err != nil {
		return nil, err
	}

	cursors := make(map[core.Platform]*platformCursor)
	scheduled := make([]core.ScheduledPost, 0, len(posts))

	for _, post := range posts {
		hours := optimalHours[post.Platform]
		if len(hours) == 0 {
			continue
		}

		cursor, ok := cursors[post.Platform]
		if !ok {
			cursor = &platformCursor{date: start}
			cursors[post.Platform] = cursor
		}

		hour := hours[cursor.slot]
		scheduledTime := time.Date(
			cursor.date.Year(), cursor.date.Month(), cursor.date.Day(),
			hour, 0, 0, 0, cursor.date.Location(),
		)

		if cursor.slot == len(hours)-1 {
			cursor.date = cursor.date.AddDate(0, 0, 1)
			cursor.slot = 0
		} else {
			cursor.slot++
		}

		scheduled = append(scheduled, core.ScheduledPost{
			ID:            uuid.New().String(),
			Platform:      post.Platform,
			Content:       post.Content,
			ScheduledTime: scheduledTime,
			Timezone:      s.timezone,
			Status:        core.StatusPending,
		})
	}

	return scheduled, nil
}

// GetOptimalTimes returns the optimal posting hours for a platform.
func (s *Scheduler) GetOptimalTimes(platform core.Platform) ([]int, error) {
	hours := OptimalHours(platform)
	if hours == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	return hours, nil
}

// GenerateContentCalendar distributes posts across a 7-day calendar. The
// input is split into 7 contiguous chunks of ceil(total/7) posts; later days
// stay empty once the list is exhausted. Every post lands on exactly one day
// and input order is preserved.
func (s *Scheduler) GenerateContentCalendar(posts []core.SocialMediaPost, startDate string) ([]core.CalendarDay, error) {
	start, err := parseStartDate(startDate)
	if err != nil {
		return nil, err
	}

	calendar := make([]core.CalendarDay, 0, 7)

	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day)
		dayPosts := postsForDay(posts, day)

		calendar = append(calendar, core.CalendarDay{
			Day:              day + 1,
			Date:             date.Format("2006-01-02"),
			DayName:          date.Weekday().String(),
			Posts:            dayPosts,
			RecommendedTimes: recommendedTimesForDay(dayPosts),
		})
	}

	return calendar, nil
}

// ValidateScheduledTime reports whether a timestamp is strictly in the future.
func (s *Scheduler) ValidateScheduledTime(t time.Time) bool {
	return t.After(time.Now())
}

// FormatScheduledTime renders a scheduled time for human display.
func (s *Scheduler) FormatScheduledTime(t time.Time) string {
	return t.Format("Jan 02, 2006 - 3:04 PM")
}

// parseStartDate parses an RFC 3339 start date, defaulting to now when empty.
func parseStartDate(startDate string) (time.Time, error) {
	if startDate == "" {
		return time.Now(), nil
	}

	start, err := time.Parse(time.RFC3339, startDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
	}
	return start, nil
}

// postsForDay returns the contiguous chunk of posts assigned to a day (0-6).
func postsForDay(posts []core.SocialMediaPost, day int) []core.SocialMediaPost {
	if len(posts) == 0 {
		return []core.SocialMediaPost{}
	}

	chunkSize := (len(posts) + 6) / 7
	startIndex := day * chunkSize
	if startIndex >= len(posts) {
		return []core.SocialMediaPost{}
	}

	endIndex := startIndex + chunkSize
	if endIndex > len(posts) {
		endIndex = len(posts)
	}

	return posts[startIndex:endIndex]
}

// recommendedTimesForDay unions the optimal hours of every platform present
// among a day's posts, sorted and deduplicated.
func recommendedTimesForDay(dayPosts []core.SocialMediaPost) []int {
	seen := make(map[int]bool)
	times := make([]int, 0)

	for _, post := range dayPosts {
		for _, hour := range optimalHours[post.Platform] {
			if !seen[hour] {
				seen[hour] = true
				times = append(times, hour)
			}
		}
	}

	sort.Ints(times)
	return times
}
