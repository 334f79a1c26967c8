package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sternfield-timetable/internal/timetable"
	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

// Chat roles.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Intents recognised by the chat assistant.
const (
	IntentGreeting      = "greeting"
	IntentRegister      = "register"
	IntentClassSubjects = "class_subjects"
	IntentClassSchedule = "class_schedule"
	IntentCurrent       = "current"
	IntentNext          = "next"
	IntentSchedule      = "schedule"
	IntentFree          = "free"
	IntentHelp          = "help"
	IntentFallback      = "fallback"
)

var (
	greetingPattern = keywords("hello", "hi", "hey", "good morning", "good afternoon")
	registerPattern = keywords("register", "sign up", "setup", "add me", "new teacher")
	currentPattern  = keywords("current", "now", "what period", "what class", "what's happening")
	nextPattern     = keywords("next", "after this", "following", "what's next")
	schedulePattern = keywords("schedule", "timetable", "today", "day")
	freePattern     = keywords("free", "break", "free time", "when free")
	helpPattern     = keywords("help", "what can you do", "options")

	classSubjectsPattern = regexp.MustCompile(`(what subjects|subjects|subjects for|classes for)\s+(\w+(?:\s+\w+)*)\s+(on|for)\s+(\w+)`)
	classSchedulePattern = regexp.MustCompile(`(schedule|timetable|classes)\s+(for|of)\s+(\w+(?:\s+\w+)*)\s+(on|for)\s+(\w+)`)
	classFillerPattern   = regexp.MustCompile(`^(?:(?:does|do|did)\s+)?(.*?)(?:\s+(?:have|has|got))?$`)
)

func keywords(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// ChatRequest is one message to the assistant.
type ChatRequest struct {
	Role    string `json:"role" validate:"required,oneof=teacher student"`
	Name    string `json:"name" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

type chatBackend interface {
	ResolveInstant(ctx context.Context, teacher, day, timeString string) (*timetable.Resolution, error)
	BuildDaySchedule(ctx context.Context, teacher, day string) ([]timetable.Slot, error)
	ClassDaySchedule(ctx context.Context, class, day string) ([]timetable.Activity, error)
	ListSubjects(ctx context.Context, class, day string) ([]string, error)
	Today() string
}

// ChatService answers free-text questions using fixed keyword triggers.
type ChatService struct {
	backend   chatBackend
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs the assistant.
func NewChatService(backend chatBackend, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{backend: backend, validator: validate, logger: logger}
}

// Reply classifies the message and answers it. Lookup failures are turned
// into conversational replies; only invalid requests return an error.
func (s *ChatService) Reply(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat payload")
	}
	if req.Role == RoleTeacher {
		req.Name = NormalizeTeacherName(req.Name)
	}

	intent, reply := s.answer(ctx, req)
	s.logger.Debug("chat reply", zap.String("role", req.Role), zap.String("intent", intent))
	return &ChatReply{Intent: intent, Reply: reply}, nil
}

func (s *ChatService) answer(ctx context.Context, req ChatRequest) (string, string) {
	msg := strings.ToLower(strings.TrimSpace(req.Message))
	teacher := req.Role == RoleTeacher

	if greetingPattern.MatchString(msg) {
		return IntentGreeting, fmt.Sprintf("Hello %s! I'm your Sternfield College assistant. How can I help you today?", req.Name)
	}

	if registerPattern.MatchString(msg) {
		if teacher {
			return IntentRegister, fmt.Sprintf("Great %s! Add your classes and subjects in the registration section to get personalised schedule alerts and information.", req.Name)
		}
		return IntentRegister, "Student registration isn't required! You can start asking questions about your schedule right away."
	}

	if !teacher {
		if m := classSubjectsPattern.FindStringSubmatch(msg); m != nil {
			class, day := className(m[2]), strings.ToUpper(m[4])
			subjects, err := s.backend.ListSubjects(ctx, class, day)
			if err != nil {
				return IntentClassSubjects, apologise("check the subjects", err)
			}
			return IntentClassSubjects, FormatSubjects(class, day, subjects)
		}
		if m := classSchedulePattern.FindStringSubmatch(msg); m != nil {
			class, day := className(m[3]), strings.ToUpper(m[5])
			activities, err := s.backend.ClassDaySchedule(ctx, class, day)
			if err != nil {
				return IntentClassSchedule, apologise("get the schedule", err)
			}
			return IntentClassSchedule, FormatClassDay(class, day, activities)
		}
	}

	switch {
	case currentPattern.MatchString(msg):
		if !teacher {
			return IntentCurrent, "To check your current class, please tell me your class name and day, or use the class timetable lookup."
		}
		res, err := s.backend.ResolveInstant(ctx, req.Name, "", "")
		if err != nil {
			return IntentCurrent, s.teacherFailure(req.Name, "check your schedule", err)
		}
		return IntentCurrent, FormatCurrent(res)

	case nextPattern.MatchString(msg):
		if !teacher {
			return IntentNext, "To check your next class, please tell me your class name and day, or use the class timetable lookup."
		}
		res, err := s.backend.ResolveInstant(ctx, req.Name, "", "")
		if err != nil {
			return IntentNext, s.teacherFailure(req.Name, "check your schedule", err)
		}
		return IntentNext, FormatNext(res)

	case schedulePattern.MatchString(msg):
		if !teacher {
			return IntentSchedule, "To see your full schedule, please tell me your class name, e.g. \"Schedule for Form 2 on Tuesday\"."
		}
		day := s.backend.Today()
		slots, err := s.backend.BuildDaySchedule(ctx, req.Name, day)
		if err != nil {
			return IntentSchedule, s.teacherFailure(req.Name, "get your schedule", err)
		}
		return IntentSchedule, FormatDaySchedule(day, slots)

	case freePattern.MatchString(msg):
		if !teacher {
			return IntentFree, "Free period information is currently available for teachers. Students can check their schedule with the class timetable lookup."
		}
		res, err := s.backend.ResolveInstant(ctx, req.Name, "", "")
		if err != nil {
			return IntentFree, s.teacherFailure(req.Name, "check your schedule", err)
		}
		return IntentFree, FormatFree(res)

	case helpPattern.MatchString(msg):
		return IntentHelp, helpMessage(teacher)
	}

	return IntentFallback, "I'm not sure I understand. Try asking about your current class, next period, today's schedule, or free periods. Type 'help' for more options."
}

func (s *ChatService) teacherFailure(name, action string, err error) string {
	if appErrors.Is(err, appErrors.ErrUnknownTeacher) {
		return fmt.Sprintf("I don't have your teaching assignments yet, %s. Please register first by typing 'register'.", name)
	}
	s.logger.Debug("chat lookup failed", zap.String("teacher", name), zap.Error(err))
	return apologise(action, err)
}

func apologise(action string, err error) string {
	return fmt.Sprintf("Sorry, I couldn't %s: %s", action, appErrors.FromError(err).Message)
}

// className strips conversational filler around a class name
// ("does form 1 have" -> "FORM 1").
func className(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := classFillerPattern.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		raw = m[1]
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func helpMessage(teacher bool) string {
	if teacher {
		return `I can help you with:
- **Register** - Set up your teacher profile and class assignments
- **Current period** - What you're teaching right now
- **Next period** - Your upcoming class
- **Today's schedule** - Your full schedule for today
- **Free periods** - When you have free time today

Type 'register' to get started!`
	}
	return `I can help you with:
- **"What subjects does [class] have on [day]"** - See all subjects for a class
- **"Schedule for [class] on [day]"** - Full daily schedule
- Use the class timetable lookup for detailed schedule queries

**Examples:**
- "What subjects does Form 1 have on Monday?"
- "Schedule for Form 2 on Tuesday"`
}
