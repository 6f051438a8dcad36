package registration

import "esports-registration/models"

// View is what a client needs to render the current step.
type View struct {
	Step                 Step                 `json:"step"`
	Form                 Form                 `json:"form"`
	PhoneRequired        bool                 `json:"phone_required"`
	Games                []models.Game        `json:"games"`
	AvailableTournaments []models.Tournament  `json:"available_tournaments"`
	Selected             *models.Tournament   `json:"selected_tournament,omitempty"`
	Screenshot           *ScreenshotInfo      `json:"payment_screenshot,omitempty"`
	Receipt              *models.Registration `json:"registration,omitempty"`
}

// ScreenshotInfo describes the attached file without its bytes.
type ScreenshotInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Uploaded    bool   `json:"uploaded"`
}

func (w Workflow) View() View {
	v := View{
		Step:                 w.Step,
		Form:                 w.Form,
		PhoneRequired:        w.policy().PhoneRequired,
		Games:                w.Games,
		AvailableTournaments: w.AvailableTournaments(),
		Selected:             w.Selected,
		Receipt:              w.Receipt,
	}
	if s := w.Screenshot; s != nil {
		v.Screenshot = &ScreenshotInfo{
			Filename:    s.Filename,
			ContentType: s.ContentType,
			Size:        s.Size(),
			Uploaded:    w.UploadedURL != "",
		}
	}
	return v
}
