// Package repository define las entidades del dominio y los contratos de
// persistencia. Las implementaciones viven en internal/store (pg, memory);
// los services dependen solo de estas interfaces.
package repository
