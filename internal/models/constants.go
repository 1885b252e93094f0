package models

const (
	// SystemPrompt establishes the tutor persona. It instructs the model to
	// prefer the supplied context, fall back to general knowledge, and
	// default code examples to Java.
	SystemPrompt = `Sen bir OOP (Nesne Tabanlı Programlama) öğreticisisin.
Kullanıcının sorularına cevap verirken, sana ek olarak sağlanan BAĞLAM (özel ders notları) varsa, öncelikle bu bilgiyi kullan.
Eğer bağlamda yeterli bilgi yoksa, genel OOP bilginle cevap ver.
Kullanıcılar kod dili belirtmezse Java dilinden örnek kod blokları ver.
Sohbet etmek isterlerse samimi bir şekilde sohbet et. `

	// Context block delimiters wrapped around retrieved passages.
	ContextHeader = "\n\n### BAĞLAM BAŞLANGIÇ (Özel Dokümanlardan Alınmıştır) ###\n"
	ContextFooter = "### BAĞLAM BİTİŞ ###\n"

	// QuestionPrefix precedes the literal user question in the newest turn.
	QuestionPrefix = "Kullanıcının sorusu: "

	// User-facing error bodies. Raw error detail stays in the logs.
	MsgEmptyMessage   = "Mesaj Giriniz"
	MsgMissingAPIKey  = "API Anahtarı eksik. Lütfen proje yöneticinize başvurun."
	MsgGenericFailure = "Bir hata oluştu. Lütfen sunucu loglarını kontrol edin."
)
