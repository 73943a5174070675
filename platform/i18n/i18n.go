// Package i18n provides the bilingual (English/Arabic) message catalog used
// for user-visible strings. This is part of the platform layer and contains
// no business logic.
package i18n

// Lang identifies one of the two supported display languages.
type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

// Normalize maps arbitrary input to a supported language, defaulting to English.
func Normalize(value string) Lang {
	if Lang(value) == Arabic {
		return Arabic
	}
	return English
}

// Key identifies a translatable message.
type Key string

const (
	// AI collaborator states
	MsgAIUnavailable Key = "ai_unavailable"
	MsgAIFailed      Key = "ai_failed"

	// Chat flows
	MsgConsultationFailed   Key = "consultation_failed"
	MsgBrainstormExhausted  Key = "brainstorm_failed"
	MsgRequestReceived      Key = "request_received"
	MsgConversationSaved    Key = "conversation_saved"
	MsgSignInToSave         Key = "sign_in_to_save"
	MsgServiceDetailMissing Key = "service_detail_missing"
)

var catalog = map[Key]map[Lang]string{
	MsgAIUnavailable: {
		English: "The assistant is not available right now. Please reach out through the contact form instead.",
		Arabic:  "المساعد غير متاح حاليًا. يرجى التواصل عبر نموذج الاتصال بدلاً من ذلك.",
	},
	MsgAIFailed: {
		English: "Something went wrong while preparing a reply. Please try again.",
		Arabic:  "حدث خطأ أثناء تجهيز الرد. يرجى المحاولة مرة أخرى.",
	},
	MsgConsultationFailed: {
		English: "We could not prepare your consultation. Please rephrase your problem and try again.",
		Arabic:  "تعذر تجهيز الاستشارة. يرجى إعادة صياغة مشكلتك والمحاولة مرة أخرى.",
	},
	MsgBrainstormExhausted: {
		English: "We could not review your idea right now. Please try again in a moment.",
		Arabic:  "تعذرت مراجعة فكرتك الآن. يرجى المحاولة بعد قليل.",
	},
	MsgRequestReceived: {
		English: "Your request has been received. We will contact you shortly.",
		Arabic:  "تم استلام طلبك. سنتواصل معك قريبًا.",
	},
	MsgConversationSaved: {
		English: "Conversation saved to your account.",
		Arabic:  "تم حفظ المحادثة في حسابك.",
	},
	MsgSignInToSave: {
		English: "Sign in to save this conversation.",
		Arabic:  "سجّل الدخول لحفظ هذه المحادثة.",
	},
	MsgServiceDetailMissing: {
		English: "This service is not available at the moment.",
		Arabic:  "هذه الخدمة غير متاحة في الوقت الحالي.",
	},
}

// T returns the message for the given key and language. Unknown keys return
// the key itself so a missing translation is visible, never an empty render.
func T(key Key, lang Lang) string {
	byLang, ok := catalog[key]
	if !ok {
		return string(key)
	}
	if msg, ok := byLang[Normalize(string(lang))]; ok && msg != "" {
		return msg
	}
	return byLang[English]
}
