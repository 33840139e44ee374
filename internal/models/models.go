package models

// All lists every model for migrations
func All() []interface{} {
	return []interface{}{
		&User{},
		&SocialLink{},
		&Verification{},
		&Referral{},
		&Invite{},
		&Proposal{},
		&PaymentAuthorization{},
		&Conversation{},
		&Participant{},
		&Message{},
		&MessageLove{},
		&Comment{},
		&Notification{},
		&AdminLog{},
	}
}
