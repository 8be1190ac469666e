// Command api expone el catálogo jerárquico por HTTP y administra su esquema.
//
//	@title			Catálogo API
//	@version		1.0
//	@description	Catálogo jerárquico de categorías y ofertas con precios agregados e historial.
//	@BasePath		/
package main

func main() {
	Execute()
}
