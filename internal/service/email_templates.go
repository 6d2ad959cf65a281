package service

import (
	"fmt"
	"strings"

	"github.com/twentyhard/twentyhard/internal/challenge"
)

var badgeTitles = map[string]string{
	challenge.Badge7DayStreak:      "7 Day Streak",
	challenge.Badge20DayStreak:     "20 Day Streak",
	challenge.Badge30DayStreak:     "30 Day Streak",
	challenge.BadgeConsistencyKing: "Consistency King",
	challenge.BadgeGoalReached:     "Goal Weight Reached",
}

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is active and day one starts today.

Log every task before the day ends. Yesterday stays open until midnight, after that it is locked for good.

Get started: %s

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

func badgeEmailTemplate(name string, badges []string, appURL, appName string) (string, string) {
	titles := make([]string, len(badges))
	for i, b := range badges {
		title, ok := badgeTitles[b]
		if !ok {
			title = b
		}
		titles[i] = "- " + title
	}

	subject := fmt.Sprintf("You earned a new badge on %s", appName)
	body := fmt.Sprintf(`Hi %s,

You just earned:
%s

Keep the streak alive: %s

Best,
The %s Team`, name, strings.Join(titles, "\n"), appURL, appName)

	return subject, body
}

func challengeWonEmailTemplate(name string, days int, appName string) (string, string) {
	subject := fmt.Sprintf("You completed the %d day challenge", days)
	body := fmt.Sprintf(`Hi %s,

%d days in a row, every task, no excuses. The challenge is won.

Your streak keeps counting if you keep going.

Best,
The %s Team`, name, days, appName)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account has been permanently deleted from %s.

Your profile, daily logs, weight history and badges have been removed from our systems.

If you didn't request this deletion, please contact our support team immediately, though we won't be able to recover your account.

Best,
The %s Team`, name, appName, appName)

	return subject, body
}
