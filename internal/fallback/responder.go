// Package fallback provides the deterministic rule-based responder used when
// the external model is unreachable or not configured. It has no state and no
// side effects: the same input always yields the same reply.
package fallback

import (
	"strings"
	"unicode/utf8"
)

const clarificationReply = "Could you give me a bit more detail? Short or generic messages are hard to answer. " +
	"Try a full question, for example: \"How do I view my grades?\", " +
	"\"When does course registration open?\", or \"Who do I contact about tuition fees?\"."

const genericReply = "I'm here to help with questions about the university, courses, schedules, grades, " +
	"and your account. How can I help you?"

// minMeaningfulLength is the ambiguity threshold: anything shorter is asked
// to clarify before any keyword matching runs.
const minMeaningfulLength = 3

// ambiguousTokens are inputs treated as too generic to answer even though
// they pass the length check. Matched exactly against the normalized input.
var ambiguousTokens = map[string]struct{}{
	"help":     {},
	"info":     {},
	"how":      {},
	"who":      {},
	"why":      {},
	"what":     {},
	"when":     {},
	"where":    {},
	"question": {},
	"ayuda":    {},
	"aide":     {},
	"hilfe":    {},
}

type rule struct {
	keywords []string
	reply    string
}

// rules are evaluated in order; the first keyword containment match wins.
var rules = []rule{
	{
		keywords: []string{"hello", "hey", "good morning", "good afternoon", "good evening", "greetings"},
		reply:    "Hello! I'm UniHelp, the university support assistant. Ask me about courses, schedules, grades, or your account.",
	},
	{
		keywords: []string{"what can you do", "menu", "options", "commands", "capabilities"},
		reply: "I can help with: university information, course schedules, viewing grades, " +
			"majors and degree programs, login and account problems, and filing a support issue.",
	},
	{
		keywords: []string{"thank", "thanks", "appreciate"},
		reply:    "You're welcome! Let me know if there is anything else I can help with.",
	},
	{
		keywords: []string{"about the university", "university info", "about the school", "campus"},
		reply: "You can find general university information, campus locations, and contact details " +
			"on the portal's About page. For anything specific, just ask.",
	},
	{
		keywords: []string{"grade", "gpa", "transcript", "marks", "exam result"},
		reply: "Grades and transcripts are available in the student dashboard under \"Academic Record\". " +
			"If a grade looks wrong, contact the course's faculty member or file a support issue.",
	},
	{
		keywords: []string{"schedule", "timetable", "class time", "calendar", "semester date"},
		reply: "Class schedules and the academic calendar are in the student dashboard under \"Schedule\". " +
			"Semester start and end dates are published there as well.",
	},
	{
		keywords: []string{"login", "log in", "sign in", "password", "account locked", "forgot"},
		reply: "For login problems: use \"Forgot password\" on the sign-in page to reset your password. " +
			"If your account is locked, file a support issue and an administrator will unlock it.",
	},
	{
		keywords: []string{"problem", "issue", "error", "not working", "broken", "bug", "complaint"},
		reply: "Sorry you're running into trouble. You can file a support issue from the portal and " +
			"the support team will follow up. Please include what you tried and what happened.",
	},
	{
		keywords: []string{"major", "degree", "program", "faculty of", "department"},
		reply: "The university's majors and degree programs are listed on the portal under \"Programs\". " +
			"Each program page lists its courses, duration, and admission requirements.",
	},
	{
		keywords: []string{"library"},
		reply:    "The library is open on weekdays during term time; exact opening hours are posted on the portal's Library page.",
	},
	{
		keywords: []string{"tuition", "fee", "payment", "scholarship"},
		reply: "Tuition, fees, and scholarship information is handled by the finance office. " +
			"Payment deadlines and bank details are listed under \"Tuition & Fees\" on the portal.",
	},
	{
		keywords: []string{"register", "registration", "enroll", "enrolment", "enrollment"},
		reply: "Course registration happens in the student dashboard during the registration window. " +
			"The window dates are announced on the portal home page each semester.",
	},
	{
		keywords: []string{"exam", "midterm", "final"},
		reply:    "Exam dates and rooms are published in the schedule section of the student dashboard about two weeks before the exam period.",
	},
}

// Respond produces a canned reply for userText. The ambiguity check runs
// before any keyword matching, so very short or generic input always gets the
// clarification reply.
func Respond(userText string) string {
	normalized := strings.ToLower(strings.TrimSpace(userText))

	if utf8.RuneCountInString(normalized) < minMeaningfulLength {
		return clarificationReply
	}
	if _, ok := ambiguousTokens[normalized]; ok {
		return clarificationReply
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				return r.reply
			}
		}
	}
	return genericReply
}
