package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sternfield-timetable/pkg/errors"
)

func newChatFixture(t *testing.T) *ChatService {
	t.Helper()
	fx := newTimetableFixture(t, sampleRecords(), janeRoster(), mondayAt(8, 10))
	return NewChatService(fx.svc, nil, zap.NewNop())
}

func ask(t *testing.T, svc *ChatService, role, name, message string) *ChatReply {
	t.Helper()
	reply, err := svc.Reply(context.Background(), ChatRequest{Role: role, Name: name, Message: message})
	require.NoError(t, err)
	return reply
}

func TestChatGreetingAndFallback(t *testing.T) {
	svc := newChatFixture(t)

	reply := ask(t, svc, RoleTeacher, "jane", "Good morning!")
	assert.Equal(t, IntentGreeting, reply.Intent)
	assert.Equal(t, "Hello Jane! I'm your Sternfield College assistant. How can I help you today?", reply.Reply)

	reply = ask(t, svc, RoleTeacher, "Jane", "this is it")
	assert.Equal(t, IntentFallback, reply.Intent, "keywords match whole words only")
	assert.Contains(t, reply.Reply, "Type 'help' for more options.")
}

func TestChatTeacherQuestions(t *testing.T) {
	svc := newChatFixture(t)

	reply := ask(t, svc, RoleTeacher, "Jane", "What class am I teaching now?")
	assert.Equal(t, IntentCurrent, reply.Intent)
	assert.Equal(t, "Your current class is **MATH** with **FORM 1** (until 8:40 AM)", reply.Reply)

	reply = ask(t, svc, RoleTeacher, "Jane", "what's next")
	assert.Equal(t, IntentNext, reply.Intent)
	assert.Equal(t, "No more teaching periods scheduled for today!", reply.Reply)

	reply = ask(t, svc, RoleTeacher, "Jane", "show me today's schedule")
	assert.Equal(t, IntentSchedule, reply.Intent)
	assert.Contains(t, reply.Reply, "Here's your schedule for Monday:")
	assert.Contains(t, reply.Reply, "- 8:00 AM - 8:40 AM: MATH with FORM 1")
	assert.Contains(t, reply.Reply, "- 10:00 AM - 10:20 AM: BREAK")

	reply = ask(t, svc, RoleTeacher, "Jane", "when am I free")
	assert.Equal(t, IntentFree, reply.Intent)
	assert.Contains(t, reply.Reply, "- 8:40 AM - 9:20 AM")
	assert.Contains(t, reply.Reply, "- 2:00 PM - 2:40 PM")

	reply = ask(t, svc, RoleTeacher, "Jane", "help")
	assert.Equal(t, IntentHelp, reply.Intent)
	assert.Contains(t, reply.Reply, "**Free periods**")
}

func TestChatUnregisteredTeacher(t *testing.T) {
	svc := newChatFixture(t)

	reply := ask(t, svc, RoleTeacher, "tom", "what period is it now")
	assert.Equal(t, IntentCurrent, reply.Intent)
	assert.Equal(t, "I don't have your teaching assignments yet, Tom. Please register first by typing 'register'.", reply.Reply)

	reply = ask(t, svc, RoleTeacher, "tom", "I want to register")
	assert.Equal(t, IntentRegister, reply.Intent)
	assert.Contains(t, reply.Reply, "Great Tom!")
}

func TestChatStudentQuestions(t *testing.T) {
	svc := newChatFixture(t)

	reply := ask(t, svc, RoleStudent, "Ann", "What subjects does Form 1 have on Monday?")
	assert.Equal(t, IntentClassSubjects, reply.Intent)
	assert.Equal(t, "**Subjects for FORM 1 on Monday:**\n\n1. BREAK\n2. CHEM\n3. ELT\n4. ENG\n5. MATH\n", reply.Reply)

	reply = ask(t, svc, RoleStudent, "Ann", "schedule for form 1 on tuesday")
	assert.Equal(t, IntentClassSchedule, reply.Intent)
	assert.Contains(t, reply.Reply, "**Full Schedule for FORM 1 on Tuesday:**")
	assert.Contains(t, reply.Reply, "- **Subject:** MATH")

	reply = ask(t, svc, RoleStudent, "Ann", "timetable for form 9 on monday")
	assert.Equal(t, "No scheduled activities found for **FORM 9** on **Monday**.", reply.Reply)

	reply = ask(t, svc, RoleStudent, "Ann", "what's happening now")
	assert.Equal(t, IntentCurrent, reply.Intent)
	assert.Contains(t, reply.Reply, "please tell me your class name and day")

	reply = ask(t, svc, RoleStudent, "Ann", "sign up")
	assert.Equal(t, "Student registration isn't required! You can start asking questions about your schedule right away.", reply.Reply)
}

func TestChatRejectsInvalidRequests(t *testing.T) {
	svc := newChatFixture(t)

	_, err := svc.Reply(context.Background(), ChatRequest{Role: "parent", Name: "Ann", Message: "hi"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Reply(context.Background(), ChatRequest{Role: RoleTeacher, Name: " ", Message: "hi"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestClassNameStripsFiller(t *testing.T) {
	assert.Equal(t, "FORM 1", className("does form 1 have"))
	assert.Equal(t, "FORM 2", className("form 2"))
	assert.Equal(t, "HAVE", className("have"))
}
