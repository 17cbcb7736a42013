package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

type Template string

const (
	TemplateOrderConfirmation Template = "order_confirmation"
	TemplateEventReminder     Template = "event_reminder"
	TemplateCheckIn           Template = "check_in"
	TemplateTeamInvite        Template = "team_invite"
	TemplatePasswordReset     Template = "password_reset"
	TemplateWelcome           Template = "welcome"
)

var allTemplates = []Template{
	TemplateOrderConfirmation,
	TemplateEventReminder,
	TemplateCheckIn,
	TemplateTeamInvite,
	TemplatePasswordReset,
	TemplateWelcome,
}

// Email is a notification waiting to be rendered and sent.
type Email struct {
	To       string
	Name     string
	Subject  string
	Template Template
	Data     any
}

type TicketLine struct {
	Code       string
	TicketType string
	Price      string
}

type OrderConfirmationData struct {
	CustomerName  string
	OrderID       string
	EventTitle    string
	EventDate     string
	EventLocation string
	Tickets       []TicketLine
	Subtotal      string
	Discount      string
	HasDiscount   bool
	Total         string
	Currency      string
}

type ReminderData struct {
	AttendeeName    string
	EventTitle      string
	EventDate       string
	EventLocation   string
	TicketCode      string
	TicketType      string
	HoursUntilEvent int
	TimeLabel       string
	EventURL        string
}

type CheckInData struct {
	AttendeeName  string
	EventTitle    string
	EventDate     string
	EventLocation string
	TicketCode    string
	TicketType    string
	CheckInTime   string
	Method        string
	SeatInfo      string
}

type InviteData struct {
	InviterName      string
	OrganizationName string
	RoleName         string
	InviteCode       string
	InviteURL        string
}

type PasswordResetData struct {
	Name     string
	ResetURL string
}

type WelcomeData struct {
	Name   string
	AppURL string
}

func OrderConfirmation(to string, data OrderConfirmationData) Email {
	return Email{
		To:       to,
		Name:     data.CustomerName,
		Subject:  "Order Confirmed - " + data.EventTitle,
		Template: TemplateOrderConfirmation,
		Data:     data,
	}
}

func EventReminder(to string, data ReminderData) Email {
	data.TimeLabel = TimeLabel(data.HoursUntilEvent)

	return Email{
		To:       to,
		Name:     data.AttendeeName,
		Subject:  fmt.Sprintf("Reminder: %s starts in %s", data.EventTitle, data.TimeLabel),
		Template: TemplateEventReminder,
		Data:     data,
	}
}

func CheckInConfirmation(to string, data CheckInData) Email {
	return Email{
		To:       to,
		Name:     data.AttendeeName,
		Subject:  "Check-In Confirmed - " + data.EventTitle,
		Template: TemplateCheckIn,
		Data:     data,
	}
}

func TeamInvite(to string, data InviteData) Email {
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("You're invited to join %s on Ormeet", data.OrganizationName),
		Template: TemplateTeamInvite,
		Data:     data,
	}
}

func PasswordReset(to string, data PasswordResetData) Email {
	return Email{
		To:       to,
		Name:     data.Name,
		Subject:  "Reset Your Password - Ormeet",
		Template: TemplatePasswordReset,
		Data:     data,
	}
}

func Welcome(to string, data WelcomeData) Email {
	return Email{
		To:       to,
		Name:     data.Name,
		Subject:  "Welcome to Ormeet",
		Template: TemplateWelcome,
		Data:     data,
	}
}

// TimeLabel renders the lead time of a reminder.
func TimeLabel(hours int) string {
	switch {
	case hours >= 24:
		return fmt.Sprintf("%d day(s)", int(math.Round(float64(hours)/24)))
	case hours <= 0:
		return "now"
	default:
		return fmt.Sprintf("%d hour(s)", hours)
	}
}

// FormatEventDate is the date format used in every email.
func FormatEventDate(t time.Time, timezone string) string {
	if loc, err := time.LoadLocation(timezone); err == nil {
		t = t.In(loc)
	}

	return t.Format("Monday, January 2, 2006 at 03:04 PM MST")
}

type renderer struct {
	pages map[Template]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"year": func() int { return time.Now().Year() },
	}

	pages := make(map[Template]*template.Template, len(allTemplates))
	for _, name := range allTemplates {
		tmpl, err := template.New(string(name)).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+string(name)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("template.ParseFS %s -> %w", name, err)
		}
		pages[name] = tmpl
	}

	return &renderer{pages: pages}, nil
}

func (r *renderer) render(name Template, data any) (string, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("tmpl.ExecuteTemplate %s -> %w", name, err)
	}

	return buf.String(), nil
}
