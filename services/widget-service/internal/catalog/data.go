package catalog

// Built-in dataset matching the shop's current offering. Deployments can
// replace it with CATALOG_PATH without rebuilding.

var defaultServices = []Service{
	{ID: "s1", Title: "CORTE Y BARBA TRADICIONAL", Description: "servicio especializado de corte de cabello y afeitado de barbas", Price: 40000, DurationMinutes: 45, Category: "servicio_clasico", Popular: true},
	{ID: "s2", Title: "PREMIUM FRECUENTES", Description: "asesoría y visigismo\nlavado de cabello\nmasajes capilares", Price: 25000, DurationMinutes: 35, Category: "premium", Popular: true},
	{ID: "s3", Title: "CORTE NIÑO", Description: "corte especial para niños", Price: 22000, DurationMinutes: 30, Category: "servicio_clasico"},
	{ID: "s4", Title: "RETOQUE BARBA", Description: "perfilado y arreglo", Price: 15000, DurationMinutes: 20, Category: "servicio_clasico"},
	{ID: "s5", Title: "COLOR & ESTILO", Description: "tintes y estilizado", Price: 70000, DurationMinutes: 60, Category: "premium"},
	{ID: "s6", Title: "AFEITADO TRADICIONAL", Description: "afeitado con navaja", Price: 32000, DurationMinutes: 35, Category: "servicio_clasico"},
	{ID: "s7", Title: "CORTES EXPRESS", Description: "corte rápido 20 minutos", Price: 18000, DurationMinutes: 20, Category: "servicio_clasico"},
	{ID: "s8", Title: "TRATAMIENTO CAPILAR", Description: "hidratación profunda", Price: 38000, DurationMinutes: 40, Category: "premium"},
}

var defaultStaff = []Staff{
	{ID: "c1", Name: "feder hernandez", Avatar: "images/barbero1.jpg"},
	{ID: "c2", Name: "juan pérez", Avatar: "images/barbero2.jpg"},
	{ID: "c3", Name: "cami ruiz", Avatar: "images/barbero3.jpg"},
}

func Default() *Catalog {
	c, err := New(defaultServices, defaultStaff)
	if err != nil {
		// The built-in dataset is validated by tests; this cannot happen.
		panic(err)
	}
	return c
}
