package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap-hub/internal/domain/chat"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEMO DATA
// Five profiles, three matches and a short chat history. Ids are derived
// deterministically so the same seed can be loaded into PostgreSQL.
// ══════════════════════════════════════════════════════════════════════════════

var demoNamespace = uuid.MustParse("6f1b3c8e-2d4a-4f6b-9c1e-5a7d8e9f0a1b")

// DemoID derives a stable UUID for a seeded entity, e.g. DemoID("match", "1").
func DemoID(kind, key string) string {
	return uuid.NewSHA1(demoNamespace, []byte(kind+":"+key)).String()
}

var demoSkills = map[string]profile.Skill{
	"1":  {ID: "1", Name: "JavaScript", Level: profile.LevelIntermediate},
	"2":  {ID: "2", Name: "React", Level: profile.LevelBeginner},
	"3":  {ID: "3", Name: "Node.js", Level: profile.LevelIntermediate},
	"4":  {ID: "4", Name: "Python", Level: profile.LevelAdvanced},
	"5":  {ID: "5", Name: "Machine Learning", Level: profile.LevelBeginner},
	"6":  {ID: "6", Name: "Data Science", Level: profile.LevelIntermediate},
	"7":  {ID: "7", Name: "UI/UX Design", Level: profile.LevelExpert},
	"8":  {ID: "8", Name: "TypeScript", Level: profile.LevelAdvanced},
	"9":  {ID: "9", Name: "GraphQL", Level: profile.LevelBeginner},
	"10": {ID: "10", Name: "Docker", Level: profile.LevelIntermediate},
}

var demoGoals = map[string]profile.LearningGoal{
	"1": {ID: "1", Name: "Master React Hooks", Description: "Understand and implement all React hooks effectively"},
	"2": {ID: "2", Name: "Build a Full-Stack App", Description: "Create a complete application with frontend and backend"},
	"3": {ID: "3", Name: "Learn Machine Learning Basics", Description: "Understand fundamental ML concepts and algorithms"},
	"4": {ID: "4", Name: "Mobile Development with React Native", Description: "Build cross-platform mobile applications"},
	"5": {ID: "5", Name: "Master Data Structures", Description: "Implement and understand common data structures"},
}

func skills(ids ...string) []profile.Skill {
	out := make([]profile.Skill, len(ids))
	for i, id := range ids {
		out[i] = demoSkills[id]
	}
	return out
}

func goals(ids ...string) []profile.LearningGoal {
	out := make([]profile.LearningGoal, len(ids))
	for i, id := range ids {
		out[i] = demoGoals[id]
	}
	return out
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DemoProfiles returns the demo profiles.
func DemoProfiles() []*profile.Profile {
	return []*profile.Profile{
		{
			ID:            "1",
			Name:          "Alex Johnson",
			Email:         "alex@example.com",
			Bio:           "Full-stack developer passionate about React and Node.js",
			Skills:        skills("1", "2", "3"),
			LearningGoals: goals("1", "5"),
			Timezone:      "America/New_York",
			JoinedAt:      day("2023-01-15"),
		},
		{
			ID:            "2",
			Name:          "Sam Taylor",
			Email:         "sam@example.com",
			Bio:           "Data scientist with interest in machine learning and AI",
			Skills:        skills("4", "6", "5"),
			LearningGoals: goals("3"),
			Timezone:      "America/Chicago",
			JoinedAt:      day("2023-02-20"),
		},
		{
			ID:            "3",
			Name:          "Jordan Lee",
			Email:         "jordan@example.com",
			Bio:           "UI/UX designer transitioning to frontend development",
			Skills:        skills("7", "2"),
			LearningGoals: goals("1", "2"),
			Timezone:      "Europe/London",
			JoinedAt:      day("2023-01-05"),
		},
		{
			ID:            "4",
			Name:          "Morgan Smith",
			Email:         "morgan@example.com",
			Bio:           "Backend engineer focused on scalable architecture",
			Skills:        skills("3", "8", "10"),
			LearningGoals: goals("2", "4"),
			Timezone:      "America/Los_Angeles",
			JoinedAt:      day("2023-03-10"),
		},
		{
			ID:            "5",
			Name:          "Riley Carter",
			Email:         "riley@example.com",
			Bio:           "Frontend developer with design background",
			Skills:        skills("1", "8", "2"),
			LearningGoals: goals("4"),
			Timezone:      "Asia/Tokyo",
			JoinedAt:      day("2023-02-01"),
		},
	}
}

type demoMatch struct {
	key       string
	initiator profile.ID
	receiver  profile.ID
	score     float64
	rationale string
	createdAt time.Time
	accepted  bool
}

var demoMatches = []demoMatch{
	{"1", "1", "3", 0.89, "Both are interested in React and frontend development", day("2023-04-05"), true},
	{"2", "1", "5", 0.76, "Common interests in JavaScript and TypeScript", day("2023-04-10"), false},
	{"3", "2", "4", 0.82, "Complementary skills in backend and data science", day("2023-04-15"), true},
}

type demoMessage struct {
	key     string
	match   string
	sender  profile.ID
	content string
	sentAt  time.Time
	read    bool
}

var demoMessages = []demoMessage{
	{"1", "1", "1", "Hi Jordan! I saw you're learning React too. How's your progress?", at("2023-04-06 10:30:00"), true},
	{"2", "1", "3", "Hey Alex! I'm just getting started with hooks. Do you have any good resources to recommend?", at("2023-04-06 10:35:00"), true},
	{"3", "1", "1", "Definitely! React docs are great, but I also like Egghead.io courses. Want to work through some examples together?", at("2023-04-06 10:38:00"), true},
	{"4", "1", "3", "That would be awesome! When are you free this week?", at("2023-04-06 10:40:00"), false},
	{"5", "3", "2", "Hello Morgan, I see you're interested in scalable architectures. I'm working on a data pipeline that needs to scale. Any thoughts?", at("2023-04-16 14:20:00"), true},
	{"6", "3", "4", "Hi Sam! I'd recommend looking into Kubernetes for that. Have you used it before?", at("2023-04-16 14:25:00"), true},
}

// Seed loads the demo data into the given stores.
func Seed(ctx context.Context, profiles profile.Repository, relationships matching.RelationshipRepository, messages chat.MessageLog) error {
	for _, p := range DemoProfiles() {
		if err := profiles.Save(ctx, p); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.ID, err)
		}
	}

	for _, m := range demoMatches {
		r, err := matching.NewRelationship(matching.NewRelationshipParams{
			ID:          DemoID("match", m.key),
			InitiatorID: m.initiator,
			ReceiverID:  m.receiver,
			Score:       m.score,
			Rationale:   m.rationale,
		})
		if err != nil {
			return fmt.Errorf("seed match %s: %w", m.key, err)
		}
		if m.accepted {
			if err := r.Accept(m.receiver); err != nil {
				return fmt.Errorf("seed match %s: %w", m.key, err)
			}
			respondedAt := m.createdAt
			r.RespondedAt = &respondedAt
		}
		r.CreatedAt = m.createdAt
		r.UpdatedAt = m.createdAt

		if err := relationships.Save(ctx, r); err != nil {
			return fmt.Errorf("seed match %s: %w", m.key, err)
		}
	}

	for _, m := range demoMessages {
		msg := &chat.Message{
			ID:             DemoID("message", m.key),
			RelationshipID: DemoID("match", m.match),
			SenderID:       m.sender,
			Content:        m.content,
			SentAt:         m.sentAt,
			Read:           m.read,
		}
		if err := messages.Append(ctx, msg); err != nil {
			return fmt.Errorf("seed message %s: %w", m.key, err)
		}
	}

	return nil
}
