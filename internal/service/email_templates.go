package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to %s!", appName)
	body = fmt.Sprintf(`Hi %s,

Welcome to %s! Your account is ready.

Set your first goal and start tracking your progress:
%s

If you didn't create this account, you can safely ignore this email.

— The %s team`, name, appName, appURL, appName)
	return subject, body
}
