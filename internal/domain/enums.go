package domain

// QuestionType is the closed set of question kinds. Point costs and rewards
// are keyed by it.
type QuestionType string

const (
	QuestionSingleChoice    QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoices QuestionType = "MULTIPLE_CHOICES"
	QuestionShortAnswer     QuestionType = "SHORT_ANSWER"
	QuestionLongAnswer      QuestionType = "LONG_ANSWER"
)

func (qt QuestionType) Valid() bool {
	switch qt {
	case QuestionSingleChoice, QuestionMultipleChoices, QuestionShortAnswer, QuestionLongAnswer:
		return true
	}
	return false
}

// CertificationType is an out-of-band eligibility proof a survey may require.
// CertificationNone is the sentinel for "open to everyone".
type CertificationType string

const (
	CertificationNone          CertificationType = "NONE"
	CertificationKakao         CertificationType = "KAKAO"
	CertificationNaver         CertificationType = "NAVER"
	CertificationGoogle        CertificationType = "GOOGLE"
	CertificationWebMail       CertificationType = "WEBMAIL"
	CertificationDriverLicense CertificationType = "DRIVER_LICENSE"
	CertificationIdentityCard  CertificationType = "IDENTITY_CARD"
)

func (ct CertificationType) Valid() bool {
	switch ct {
	case CertificationNone, CertificationKakao, CertificationNaver, CertificationGoogle,
		CertificationWebMail, CertificationDriverLicense, CertificationIdentityCard:
		return true
	}
	return false
}
