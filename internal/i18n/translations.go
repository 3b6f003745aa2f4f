package i18n

// Strings is the set of interface strings for one language.
type Strings struct {
	InitialMessage   string
	ErrorPrefix      string
	InputPlaceholder string
	CrisisTitle      string
	CallLabel        string
	WebsiteLabel     string
	Disclaimer       string
	QuickActions     []string
}

var translations = map[Language]Strings{
	English: {
		InitialMessage:   "Hello! I'm the Legal Aid Assistant. I can share general legal information about housing, work, family, debt and more. What would you like to talk about today?",
		ErrorPrefix:      "Error:",
		InputPlaceholder: "Describe your legal question...",
		CrisisTitle:      "Immediate Help Resources",
		CallLabel:        "Call",
		WebsiteLabel:     "Website",
		Disclaimer:       "This is general legal information, not legal advice. Consult a qualified lawyer for your specific case.",
		QuickActions: []string{
			"I have a problem with my landlord.",
			"My employer isn't paying me correctly.",
			"I need information about divorce or child custody.",
			"I'm facing debt collection issues.",
		},
	},
	Spanish: {
		InitialMessage:   "¡Hola! Soy el Asistente de Ayuda Legal. Puedo darle información legal general sobre vivienda, trabajo, familia, deudas y más. ¿De qué le gustaría hablar hoy?",
		ErrorPrefix:      "Error:",
		InputPlaceholder: "Describa su pregunta legal...",
		CrisisTitle:      "Recursos de ayuda inmediata",
		CallLabel:        "Llame al",
		WebsiteLabel:     "Sitio web",
		Disclaimer:       "Esta es información legal general, no asesoramiento legal. Consulte a un abogado calificado para su caso específico.",
		QuickActions: []string{
			"Tengo un problema con mi arrendador.",
			"Mi empleador no me está pagando correctamente.",
			"Necesito información sobre divorcio o custodia de hijos.",
			"Tengo problemas con el cobro de deudas.",
		},
	},
	French: {
		InitialMessage:   "Bonjour ! Je suis l'Assistant d'aide juridique. Je peux vous donner des informations juridiques générales sur le logement, le travail, la famille, les dettes et plus encore. De quoi souhaitez-vous parler aujourd'hui ?",
		ErrorPrefix:      "Erreur :",
		InputPlaceholder: "Décrivez votre question juridique...",
		CrisisTitle:      "Ressources d'aide immédiate",
		CallLabel:        "Appelez le",
		WebsiteLabel:     "Site web",
		Disclaimer:       "Il s'agit d'informations juridiques générales, pas d'un avis juridique. Consultez un avocat qualifié pour votre situation.",
		QuickActions: []string{
			"J'ai un problème avec mon propriétaire.",
			"Mon employeur ne me paie pas correctement.",
			"J'ai besoin d'informations sur le divorce ou la garde des enfants.",
			"Je fais face à un recouvrement de dettes.",
		},
	},
	Chinese: {
		InitialMessage:   "您好！我是法律援助助手。我可以提供有关住房、工作、家庭、债务等方面的一般法律信息。今天您想谈些什么？",
		ErrorPrefix:      "错误：",
		InputPlaceholder: "请描述您的法律问题……",
		CrisisTitle:      "紧急求助资源",
		CallLabel:        "拨打",
		WebsiteLabel:     "网站",
		Disclaimer:       "这是一般法律信息，不是法律意见。请就您的具体情况咨询合格的律师。",
		QuickActions: []string{
			"我和房东之间有问题。",
			"我的雇主没有正确支付我的工资。",
			"我需要有关离婚或子女监护权的信息。",
			"我正面临债务催收问题。",
		},
	},
	Vietnamese: {
		InitialMessage:   "Xin chào! Tôi là Trợ lý Trợ giúp Pháp lý. Tôi có thể cung cấp thông tin pháp lý chung về nhà ở, việc làm, gia đình, nợ nần và nhiều vấn đề khác. Hôm nay bạn muốn nói về điều gì?",
		ErrorPrefix:      "Lỗi:",
		InputPlaceholder: "Mô tả câu hỏi pháp lý của bạn...",
		CrisisTitle:      "Nguồn trợ giúp khẩn cấp",
		CallLabel:        "Gọi",
		WebsiteLabel:     "Trang web",
		Disclaimer:       "Đây là thông tin pháp lý chung, không phải tư vấn pháp lý. Hãy tham khảo ý kiến luật sư có chuyên môn cho trường hợp cụ thể của bạn.",
		QuickActions: []string{
			"Tôi có vấn đề với chủ nhà.",
			"Chủ lao động không trả lương đúng cho tôi.",
			"Tôi cần thông tin về ly hôn hoặc quyền nuôi con.",
			"Tôi đang gặp vấn đề về đòi nợ.",
		},
	},
}

// For returns the strings for l. It panics on a language outside the supported
// set, which is a programming error.
func For(l Language) Strings {
	s, ok := translations[l]
	if !ok {
		panic("i18n: unsupported language " + string(l))
	}
	return s
}

// CrisisResource is an emergency contact shown in the crisis panel.
type CrisisResource struct {
	Name    string `json:"name"`
	Number  string `json:"number"`
	Website string `json:"website,omitempty"`
}

// CrisisResources lists the emergency contacts. They are the same in every
// language.
func CrisisResources() []CrisisResource {
	return []CrisisResource{
		{Name: "National Domestic Violence Hotline", Number: "1-800-799-7233", Website: "thehotline.org"},
		{Name: "Suicide & Crisis Lifeline", Number: "988", Website: "988lifeline.org"},
		{Name: "Crisis Text Line", Number: "Text HOME to 741741", Website: "crisistextline.org"},
		{Name: "Emergency Services", Number: "911"},
	}
}
