package orchestrator

// View identifies one screen of the conversation widget.
type View string

const (
	ViewMain               View = "main"
	ViewServices           View = "services"
	ViewServiceDetail      View = "service_detail"
	ViewBrainstormInput    View = "brainstorm_input"
	ViewBrainstormResult   View = "brainstorm_result"
	ViewRequestService     View = "request_service"
	ViewRequestSuccess     View = "request_success"
	ViewConsultationInput  View = "consultation_input"
	ViewConsultationResult View = "consultation_result"
)

// navTargets lists the direct, non-AI transitions. Views reached through an
// AI call (service_detail, brainstorm_result, consultation_result) or a form
// submission (request_success) are entered by their operations, not Navigate.
var navTargets = map[View][]View{
	ViewMain:               {ViewServices, ViewConsultationInput},
	ViewServices:           {ViewMain},
	ViewServiceDetail:      {ViewServices, ViewBrainstormInput, ViewRequestService},
	ViewBrainstormInput:    {ViewServiceDetail},
	ViewBrainstormResult:   {ViewBrainstormInput},
	ViewRequestService:     {ViewServiceDetail},
	ViewRequestSuccess:     {ViewMain},
	ViewConsultationInput:  {ViewMain},
	ViewConsultationResult: {ViewConsultationInput},
}

func canNavigate(from, to View) bool {
	for _, allowed := range navTargets[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValid reports whether v names a known view.
func (v View) IsValid() bool {
	switch v {
	case ViewMain, ViewServices, ViewServiceDetail, ViewBrainstormInput,
		ViewBrainstormResult, ViewRequestService, ViewRequestSuccess,
		ViewConsultationInput, ViewConsultationResult:
		return true
	}
	return false
}
