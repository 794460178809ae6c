package entity

// SheetRow - промежуточная запись синхронизации, один товар из таблицы-источника
// Содержит также внутренние денежные колонки, которые НИКОГДА не должны
// попадать в публичный каталог: ToPerfume их сознательно не копирует
type SheetRow struct {
	ID            int
	Name          string
	Brand         string
	Gender        string
	Family        string
	Notes         Notes
	Size          string
	Price         float64
	Image         string
	Description   string
	Story         string
	Concentration string
	Longevity     string
	Sillage       string
	Season        TagSet
	Occasion      TagSet

	// Внутренние бизнес-поля (себестоимость, маржа, комиссии)
	PrecioCosto       float64
	PrecioPagina      float64
	Envio             float64
	Empaque           float64
	CostoTotalReal    float64
	GananciaMarca     float64
	ComisionVendedor  float64
	Marketing         float64
	PrecioRecomendado float64
}

// ToPerfume строит публичную запись каталога
// Бизнес-поля отбрасываются самой конструкцией: их здесь просто нет
func (r SheetRow) ToPerfume() Perfume {
	return Perfume{
		ID:            r.ID,
		Name:          r.Name,
		Brand:         r.Brand,
		Gender:        r.Gender,
		Family:        r.Family,
		Notes:         r.Notes,
		Size:          r.Size,
		Price:         r.Price,
		Image:         r.Image,
		Description:   r.Description,
		Story:         r.Story,
		Concentration: r.Concentration,
		Longevity:     r.Longevity,
		Sillage:       r.Sillage,
		Season:        r.Season,
		Occasion:      r.Occasion,
	}
}
