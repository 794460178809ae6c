package service

import (
	"fmt"
	"strings"

	"saharaessence/internal/app/storefront/entity"
)

// Все клиентские тексты ассистента держат фиксированную персону "Aurora":
// элегантная, теплая, сенсорная лексика, люксовые эмодзи с умеренностью

// FallbackReason - фиксированная фраза вместо несгенерированного обоснования
const FallbackReason = "Recomendado para ti."

// ApologyMessage - фиксированное извинение персоны на фатальной ошибке пайплайна
// Сырой текст ошибки пользователю не показывается никогда
const ApologyMessage = "Lo siento, tuve un pequeño mareo olfativo. ¿Podrías repetirme tu pregunta? A veces las esencias son caprichosas."

// extractionPrompt просит модель извлечь предпочтения в JSON с фиксированными ключами
func extractionPrompt(userMessage string) string {
	return fmt.Sprintf(`Eres un experto en perfumes. Analiza el siguiente mensaje del usuario y extrae sus preferencias en formato JSON.
Si un campo no se menciona, usa null.

Mensaje: "%s"

Campos a extraer:
- occasion (ej: oficina, fiesta, cita, diario)
- family (ej: floral, amaderado, cítrico, oriental)
- gender (ej: hombre, mujer, unisex)
- concentration (ej: edt, edp, parfum)
- season (ej: verano, invierno, primavera, otoño)

Responde SOLO con el JSON válido.`, userMessage)
}

// semanticQuery строит текст запроса для эмбеддинга
// family и occasion независимо деградируют к "general" при отсутствии
func semanticQuery(prefs entity.Preferences, userMessage string) string {
	family := entity.ValueOr(prefs.Family, "general")
	occasion := entity.ValueOr(prefs.Occasion, "general")
	return fmt.Sprintf("Perfume %s para %s. %s", family, occasion, userMessage)
}

// fallbackPrompt - консультативный ответ при пустой выдаче поиска
// Запрещены слова "error" и "no encontrado"; максимум 40 слов
func fallbackPrompt(userMessage string, prefs entity.Preferences) string {
	return fmt.Sprintf(`Eres un experto en perfumes (Aurora). El usuario preguntó: "%s".
INTENCIÓN: No encontramos perfumes exactos en el catálogo con los filtros actuales (Ocasión: %s, Familia: %s).

TU TAREA:
Genera una respuesta amable y sofisticada (máximo 40 palabras) que:
1. Reconozca sutilmente que necesitamos afinar la búsqueda (sin decir "error" ni "no encontrado").
2. Le haga 1-2 preguntas clave al usuario para entender mejor lo que busca (ej: ¿Prefieres notas más frescas o dulces? ¿Es para una ocasión especial?).
3. Mantén la personalidad de Aurora: elegante, cálida, experta.`,
		userMessage,
		entity.ValueOr(prefs.Occasion, "ninguna"),
		entity.ValueOr(prefs.Family, "ninguna"),
	)
}

// explanationPrompt - персональное обоснование одного парфюма, максимум 10 слов
func explanationPrompt(perfume entity.Perfume, userMessage string) string {
	return fmt.Sprintf(`Explica en MÁXIMO 10 PALABRAS, de forma persuasiva y elegante por qué el perfume "%s" (%s) es una elección exquisita para: "%s".
Usa la descripción: "%s".
Sé directo impactante.`, perfume.Name, perfume.Brand, userMessage, perfume.Description)
}

// finalPrompt - итоговая реплика ассистента по трем объясненным парфюмам
func finalPrompt(userMessage string, products []entity.RecommendedPerfume) string {
	var lines []string
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s de %s: %s", p.Name, p.Brand, p.Reason))
	}

	return fmt.Sprintf(`El usuario preguntó: "%s".
Le hemos encontrado estos perfumes excepcionales:
%s

Actúa como un *connoisseur* de perfumes amigo del usuario.

INSTRUCCIONES DE RESPUESTA:
1. **SÉ EXTREMADAMENTE BREVE**: Tu respuesta completa NO debe superar las 40 palabras.
2. **SÉ CÁLIDA Y SOFISTICADA**: Usa un tono cercano pero elevado, con un toque de misterio. Eres Aurora, una experta en alta perfumería con una personalidad cálida, extremadamente elegante y sutilmente sensual.
3. **Estilo Lujoso y Sensorial**: Usa palabras evocadoras como "sublime", "esencia", "aura", "encanto", "piel". Evita lo genérico.
4. **Visual**: Usa emojis de lujo (✨, 💎, 🌹) con moderación y elegancia.

Ejemplo de respuesta ideal:
"✨ *Il Sexuel* es una joya olfativa; su calidez envolverá tu piel con un aura irresistible. 🌹 Una elección exquisita para quien sabe lo que quiere."`,
		userMessage, strings.Join(lines, "\n"))
}

// embeddingText - описательный текст парфюма для генерации эмбеддинга
func embeddingText(p entity.Perfume) string {
	brand := p.Brand
	if brand == "" {
		brand = "Desconocida"
	}
	family := p.Family
	if family == "" {
		family = "N/A"
	}

	return strings.TrimSpace(fmt.Sprintf(`%s.
Marca: %s.
Familia olfativa: %s.
Notas: %s.
Descripción: %s.
Historia: %s.
Ocasión: %s.
Temporada: %s.`,
		p.Name, brand, family,
		notesJSON(p.Notes),
		p.Description, p.Story,
		strings.Join(p.Occasion, ", "),
		strings.Join(p.Season, ", "),
	))
}

func notesJSON(n entity.Notes) string {
	data, err := n.Value()
	if err != nil {
		return "{}"
	}
	if b, ok := data.([]byte); ok {
		return string(b)
	}
	return "{}"
}
