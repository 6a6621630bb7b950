package models

// Emotion is a selectable emotion of the day with the emoji shown next to it.
type Emotion struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Value is one of the scout values a day can be dedicated to.
type Value struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var Emotions = []Emotion{
	{Name: "Радість", Emoji: "😊"},
	{Name: "Спокій", Emoji: "😌"},
	{Name: "Сум", Emoji: "😔"},
	{Name: "Злість", Emoji: "😡"},
	{Name: "Тривога", Emoji: "😰"},
	{Name: "Вдячність", Emoji: "🙏"},
	{Name: "Натхнення", Emoji: "✨"},
	{Name: "Втома", Emoji: "😴"},
	{Name: "Збентеження", Emoji: "😕"},
}

var PhysicalActivities = []string{
	"Пробіжка",
	"Зарядка",
	"Тренування",
	"Спортзал",
	"Йога",
	"Прогулянка",
	"Танці",
	"Плавання",
	"Інше",
}

const ReadingActivity = "Читання книги"

var IntellectualActivities = []string{
	ReadingActivity,
	"Онлайн-курс",
	"Лекція",
	"Подкаст",
	"Стаття",
	"Дискусія",
	"Документальний фільм",
	"Розв'язання задач",
	"Вивчення мови",
	"Інше",
}

var Values = []Value{
	{Title: "Будь вільним!", Description: "В свободі духу творити себе та кращий світ навколо себе."},
	{Title: "Будь справжнім!", Description: "Єдиним у думці, у слові й у ділі, щирим у намірах і щедрим у діях."},
	{Title: "Будь другом!", Description: "із Всесвітом, із людством і з Україною, з кожним хто поруч, хто тут і сьогодні, щоб нами почате не мало кінця."},
	{Title: "Будь мудрим!", Description: "дивитися глибше і бачити краще, любити життя й обирати добро."},
	{Title: "Будь творчим!", Description: "Відважно йти вперед з відкритим навстіж серцем, поглядом мрії сягаючи за обрії можливості."},
	{Title: "Будь!", Description: "Не вагатися! Не боятися! Не вдавати! Справді бути і бути разом!"},
	{Title: "Бо ми — Україна!", Description: "народ борців, земля добра, край гідності і свободи, наша праця, наша мрія, наша доля!"},
}

var ActionTypes = []string{
	"Фізичний розвиток",
	"Інтелектуальний розвиток",
	"Емоційний розвиток",
	"Соціальний розвиток",
}

// EmotionEmoji returns the emoji for a catalog emotion.
func EmotionEmoji(name string) (string, bool) {
	for _, e := range Emotions {
		if e.Name == name {
			return e.Emoji, true
		}
	}
	return "", false
}

func IsPhysicalActivity(s string) bool     { return contains(PhysicalActivities, s) }
func IsIntellectualActivity(s string) bool { return contains(IntellectualActivities, s) }
func IsActionType(s string) bool           { return contains(ActionTypes, s) }

func IsValue(s string) bool {
	for _, v := range Values {
		if v.Title == s {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
